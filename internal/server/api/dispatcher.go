package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"orderstore/internal/common"
	"orderstore/internal/dbx"
	"orderstore/internal/logging"
	"orderstore/internal/server/models"
	"orderstore/internal/server/repositories/repomanager"
	"orderstore/internal/textx"
)

// maxBatchRecords caps the list page size. Each page mints one credential
// spanning all its rows' asset paths; the token service bounds the
// serialized inline policy, so the page stays small.
const maxBatchRecords = 5

const defaultDescription = "Default Description"

// Dispatcher routes gateway events to the repository, the credential
// services and the configured asset strategy. Each invocation is a single
// stateless unit of work on one leased database connection.
type Dispatcher struct {
	db          dbx.Leaser
	repos       repomanager.RepositoryManager
	strategy    AssetStrategy
	logger      logging.Logger
	headers     map[string]string
	blobHeaders map[string]string
}

func NewDispatcher(db dbx.Leaser, repos repomanager.RepositoryManager, strategy AssetStrategy, logger logging.Logger, allowedOrigin string) *Dispatcher {
	return &Dispatcher{
		db:          db,
		repos:       repos,
		strategy:    strategy,
		logger:      logger,
		headers:     securityHeaders(allowedOrigin),
		blobHeaders: blobHeaders(allowedOrigin),
	}
}

// Dispatch runs one request end to end. The connection lease is returned
// before the final response is produced, on every exit path; internal
// failures are logged in full here and converted to a generic message.
// Unroutable (resource, method) combinations fall through to a 400.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	d.logger.Info(ctx, "handling request", "resource", req.Resource, "method", req.Method)

	var resp *Response
	err := dbx.WithConn(ctx, d.db, func(ctx context.Context, conn dbx.DBTX) error {
		r, err := d.route(ctx, conn, req)
		resp = r
		return err
	})
	if err != nil {
		d.logger.Error(ctx, "request failed", "resource", req.Resource, "method", req.Method, "error", err.Error())
		return errorResponse(http.StatusInternalServerError, d.headers, msgServerError)
	}
	if resp == nil {
		return errorResponse(http.StatusBadRequest, d.headers, msgInvalidRequest)
	}
	return resp
}

// route matches (resource, method). A (nil, nil) return means no branch
// matched and the caller answers with the generic 400. Validation and
// not-found conditions short-circuit before any mutating call.
func (d *Dispatcher) route(ctx context.Context, conn dbx.DBTX, req *Request) (*Response, error) {
	switch req.Resource {
	case ResourceOrders:
		if req.Method == http.MethodGet {
			return d.listOrders(ctx, conn, req)
		}

	case ResourceOrder:
		if req.Method == http.MethodPost {
			return d.createOrder(ctx, conn, req)
		}

	case ResourceOrderByID, ResourcePresignedPost, ResourceOrderBlob:
		orderID := req.PathParameters["orderId"]
		if orderID == "" {
			return errorResponse(http.StatusBadRequest, d.headers, msgInvalidParameters), nil
		}

		order, err := d.repos.Orders(conn).GetByID(ctx, orderID)
		if errors.Is(err, common.ErrNotFound) {
			return errorResponse(http.StatusNotFound, d.headers, msgOrderNotFound), nil
		}
		if err != nil {
			return nil, err
		}

		switch req.Resource {
		case ResourceOrderByID:
			switch req.Method {
			case http.MethodGet:
				return d.getOrder(ctx, order)
			case http.MethodPut:
				return d.updateOrder(ctx, conn, req, order)
			case http.MethodDelete:
				return d.deleteOrder(ctx, conn, order)
			}
		case ResourcePresignedPost:
			if req.Method == http.MethodPost {
				return d.presignedPost(ctx, order)
			}
		case ResourceOrderBlob:
			switch req.Method {
			case http.MethodGet:
				return d.getBlob(ctx, conn, order)
			case http.MethodPost:
				return d.putBlob(ctx, conn, req, order)
			}
		}
	}
	return nil, nil
}

type listResponse struct {
	Orders      []*models.Order `json:"orders"`
	Limit       int             `json:"limit"`
	Offset      int             `json:"offset"`
	OrdersCount int64           `json:"ordersCount"`
	Pages       int64           `json:"pages"`
	Asset       *models.Asset   `json:"asset,omitempty"`
}

func (d *Dispatcher) listOrders(ctx context.Context, conn dbx.DBTX, req *Request) (*Response, error) {
	limit := maxBatchRecords
	offset := 0

	// Non-numeric values fall back to the defaults. The accepted limit
	// interval is (0, maxBatchRecords) exclusive; a request for exactly
	// the maximum lands on the identical default.
	if q := req.QueryStringParameters; q != nil {
		if v, err := strconv.Atoi(q["limit"]); err == nil && v > 0 && v < maxBatchRecords {
			limit = v
		}
		if v, err := strconv.Atoi(q["offset"]); err == nil && v > 0 {
			offset = v
		}
	}

	repo := d.repos.Orders(conn)

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	// An out-of-range offset clamps to the total, yielding an empty page
	// rather than an error.
	if int64(offset) >= count {
		offset = int(count)
	}

	rows, err := repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	orders := rows
	if orders == nil {
		orders = []*models.Order{}
	}

	asset, err := d.strategy.AccessForOrders(ctx, orders)
	if err != nil {
		return nil, err
	}

	var pages int64
	if int64(limit) <= count && count > 0 {
		pages = int64(limit) / count
	}

	// The list is wrapped in an object rather than returned as a bare
	// array (JSON hijacking).
	return jsonResponse(http.StatusOK, d.headers, &listResponse{
		Orders:      orders,
		Limit:       limit,
		Offset:      offset,
		OrdersCount: count,
		Pages:       pages,
		Asset:       asset,
	})
}

func (d *Dispatcher) createOrder(ctx context.Context, conn dbx.DBTX, req *Request) (*Response, error) {
	order := &models.Order{
		OrderID:     uuid.NewString(),
		Description: defaultDescription,
	}
	d.strategy.NewOrder(order)

	if req.Body != "" {
		var body map[string]any
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			return nil, err
		}
		if desc, ok := body["description"].(string); ok && desc != "" {
			order.Description = textx.TrimDescription(desc)
		}
	}

	repo := d.repos.Orders(conn)
	if err := repo.Create(ctx, order); err != nil {
		return nil, err
	}

	created, err := repo.GetByID(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	if err := d.attachAccess(ctx, created); err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, d.headers, created)
}

func (d *Dispatcher) getOrder(ctx context.Context, order *models.Order) (*Response, error) {
	if err := d.attachAccess(ctx, order); err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, d.headers, order)
}

func (d *Dispatcher) updateOrder(ctx context.Context, conn dbx.DBTX, req *Request, order *models.Order) (*Response, error) {
	var desc string
	if req.Body != "" {
		var body map[string]any
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			return nil, err
		}
		desc, _ = body["description"].(string)
	}
	if desc == "" {
		return errorResponse(http.StatusBadRequest, d.headers, msgInvalidParameters), nil
	}

	// Only the description comes from the request; the rest stays as
	// stored.
	order.Description = textx.TrimDescription(desc)

	repo := d.repos.Orders(conn)
	if err := repo.Update(ctx, order); err != nil {
		return nil, err
	}

	fresh, err := repo.GetByID(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	if err := d.attachAccess(ctx, fresh); err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, d.headers, fresh)
}

func (d *Dispatcher) deleteOrder(ctx context.Context, conn dbx.DBTX, order *models.Order) (*Response, error) {
	// The backing asset goes first; the row delete is not attempted when
	// the object removal genuinely failed.
	if err := d.strategy.OnOrderDelete(ctx, order); err != nil {
		return nil, err
	}
	if err := d.repos.Orders(conn).Delete(ctx, order.OrderID); err != nil {
		return nil, err
	}
	return &Response{StatusCode: http.StatusNoContent, Headers: d.headers}, nil
}

func (d *Dispatcher) presignedPost(ctx context.Context, order *models.Order) (*Response, error) {
	issuer, ok := d.strategy.(UploadTicketIssuer)
	if !ok {
		return nil, nil
	}
	ticket, err := issuer.IssueUploadTicket(ctx, order)
	if err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, d.headers, ticket)
}

func (d *Dispatcher) getBlob(ctx context.Context, conn dbx.DBTX, order *models.Order) (*Response, error) {
	ba, ok := d.strategy.(BlobAccess)
	if !ok {
		return nil, nil
	}
	blob, err := ba.ReadBlob(ctx, conn, order.OrderID)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode:      http.StatusOK,
		Headers:         d.blobHeaders,
		Body:            base64.StdEncoding.EncodeToString(blob),
		IsBase64Encoded: true,
	}, nil
}

func (d *Dispatcher) putBlob(ctx context.Context, conn dbx.DBTX, req *Request, order *models.Order) (*Response, error) {
	ba, ok := d.strategy.(BlobAccess)
	if !ok {
		return nil, nil
	}

	data := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	if err := ba.WriteBlob(ctx, conn, order.OrderID, data); err != nil {
		return nil, err
	}
	return &Response{StatusCode: http.StatusNoContent, Headers: d.headers}, nil
}

func (d *Dispatcher) attachAccess(ctx context.Context, order *models.Order) error {
	asset, err := d.strategy.AccessForOrders(ctx, []*models.Order{order})
	if err != nil {
		return err
	}
	order.Asset = asset
	return nil
}
