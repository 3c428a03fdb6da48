// Package apiclient talks to the notification service's JSON API.
package apiclient

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"dn-client/internal/common/config"
	apperrors "dn-client/internal/common/errors"
	dnhttp "dn-client/internal/common/http"
	"dn-client/internal/common/logger"
	"dn-client/internal/common/metrics"
	"dn-client/internal/common/observability"
	"dn-client/internal/common/validation"
	"dn-client/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Endpoint names, also used as metric and span labels.
const (
	EndpointCreateInfo = "create_info"
	EndpointList       = "list"
	EndpointInfo       = "info"
	EndpointCreate     = "create"
	EndpointDelete     = "delete"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var responseSchemas = loadResponseSchemas()

func loadResponseSchemas() map[string]*validation.Schema {
	out := make(map[string]*validation.Schema)
	for _, name := range []string{EndpointCreateInfo, EndpointList, EndpointInfo, EndpointCreate, EndpointDelete} {
		data, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("apiclient: missing response schema %s: %v", name, err))
		}
		out[name] = validation.MustCompileSchema(string(data))
	}
	return out
}

// Client is bound to one service base URL.
type Client struct {
	baseURL string
	http    *dnhttp.Client
	obs     *observability.Observability
	logger  logger.Logger
}

func New(cfg config.APIConfig, log logger.Logger, obs *observability.Observability) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: dnhttp.NewClient(cfg.GetTimeout(),
			dnhttp.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst),
			dnhttp.WithUserAgent(cfg.UserAgent),
		),
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "apiclient"}),
	}
}

// FetchSchemas calls GET /api/create_info.
func (c *Client) FetchSchemas(ctx context.Context) ([]models.NotificationTypeSchema, error) {
	var out []models.NotificationTypeSchema
	if err := c.get(ctx, EndpointCreateInfo, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List calls GET /api/list with the optional uuid and content filters.
func (c *Client) List(ctx context.Context, params models.ListParams) ([]models.OccurrenceRow, error) {
	q := url.Values{}
	if params.UUID != "" {
		q.Set("uuid", params.UUID)
	}
	if params.Content != "" {
		q.Set("content", params.Content)
	}
	var out []models.OccurrenceRow
	if err := c.get(ctx, EndpointList, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Info calls GET /api/info?uuid=.
func (c *Client) Info(ctx context.Context, uuid string) (*models.InfoResponse, error) {
	var out models.InfoResponse
	if err := c.get(ctx, EndpointInfo, url.Values{"uuid": {uuid}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create calls POST /api/create. An ok:false body is returned as is.
func (c *Client) Create(ctx context.Context, req models.CreateRequest) (*models.CreateResponse, error) {
	var out models.CreateResponse
	if err := c.call(ctx, EndpointCreate, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete calls GET /api/delete?uuid=.
func (c *Client) Delete(ctx context.Context, uuid string) (*models.DeleteResponse, error) {
	var out models.DeleteResponse
	if err := c.get(ctx, EndpointDelete, url.Values{"uuid": {uuid}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out interface{}) error {
	return c.call(ctx, endpoint, q, nil, out)
}

// call sends one request. A nil payload means GET, anything else is POSTed.
func (c *Client) call(ctx context.Context, endpoint string, q url.Values, payload interface{}, out interface{}) error {
	target := c.baseURL + "/api/" + endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	ctx, span := c.obs.StartSpan(ctx, "api."+endpoint, attribute.String("dn.endpoint", endpoint))
	defer span.End()

	start := time.Now()
	var (
		body []byte
		err  error
	)
	if payload == nil {
		body, err = c.http.GetJSON(ctx, target)
	} else {
		body, err = c.http.PostJSON(ctx, target, payload)
	}
	elapsed := time.Since(start)

	if err != nil {
		var statusErr *dnhttp.StatusError
		if errors.As(err, &statusErr) {
			metrics.ObserveAPIRequest(endpoint, statusErr.StatusCode, elapsed)
			span.SetAttributes(attribute.Int("http.status_code", statusErr.StatusCode))
			span.SetStatus(codes.Error, statusErr.Error())
			c.logger.Warn("request returned error status", map[string]interface{}{
				"endpoint": endpoint,
				"status":   statusErr.StatusCode,
			})
			return apperrors.NewTransportError(endpoint, statusErr.StatusCode)
		}
		metrics.ObserveAPIRequest(endpoint, 0, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperrors.NewRequestFailedError(endpoint, err)
	}

	metrics.ObserveAPIRequest(endpoint, 200, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", 200))

	if err := decode(endpoint, body, out); err != nil {
		span.SetStatus(codes.Error, "decode failed")
		c.logger.Warn("malformed response", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err,
		})
		return err
	}

	c.logger.Debug("request completed", map[string]interface{}{
		"endpoint":   endpoint,
		"durationMs": elapsed.Milliseconds(),
	})
	return nil
}

// decode checks body against the endpoint's response schema, then unmarshals it.
func decode(endpoint string, body []byte, out interface{}) error {
	res, err := responseSchemas[endpoint].ValidateDocument(body)
	if err != nil {
		return apperrors.NewDecodeFailedError(endpoint, err)
	}
	if !res.Valid {
		return apperrors.NewDecodeFailedError(endpoint, errors.New(strings.Join(res.GetErrorMessages(), "; ")))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewDecodeFailedError(endpoint, err)
	}
	return nil
}
