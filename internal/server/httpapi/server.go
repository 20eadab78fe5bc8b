// Package httpapi adapts plain HTTP traffic onto the dispatcher's request
// envelope. Routing happens here; everything after (parameter validation,
// status codes, headers) is the dispatcher's job.
package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"orderstore/internal/logging"
	"orderstore/internal/server/api"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	dispatcher *api.Dispatcher
	logger     logging.Logger
}

func NewServer(address string, d *api.Dispatcher, l logging.Logger) *Server {
	return &Server{
		address:    address,
		dispatcher: d,
		logger:     l.With("module", "http_server"),
	}
}

// The chi patterns are exactly the dispatcher's resource constants, so the
// matched pattern doubles as the envelope's Resource field.
func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Get(api.ResourceOrders, s.handle(api.ResourceOrders))
	r.Post(api.ResourceOrder, s.handle(api.ResourceOrder))
	r.Get(api.ResourceOrderByID, s.handle(api.ResourceOrderByID))
	r.Put(api.ResourceOrderByID, s.handle(api.ResourceOrderByID))
	r.Delete(api.ResourceOrderByID, s.handle(api.ResourceOrderByID))
	r.Post(api.ResourcePresignedPost, s.handle(api.ResourcePresignedPost))
	r.Get(api.ResourceOrderBlob, s.handle(api.ResourceOrderBlob))
	r.Post(api.ResourceOrderBlob, s.handle(api.ResourceOrderBlob))

	return r
}

func (s *Server) handle(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.logger.Error(r.Context(), "body read error", "error", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		req := &api.Request{
			Resource: resource,
			Method:   r.Method,
			Body:     string(body),
		}
		if id := chi.URLParam(r, "orderId"); id != "" {
			req.PathParameters = map[string]string{"orderId": id}
		}
		if q := r.URL.Query(); len(q) > 0 {
			req.QueryStringParameters = make(map[string]string, len(q))
			for k := range q {
				req.QueryStringParameters[k] = q.Get(k)
			}
		}

		s.write(r.Context(), w, s.dispatcher.Dispatch(r.Context(), req))
	}
}

func (s *Server) write(ctx context.Context, w http.ResponseWriter, resp *api.Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	if resp.IsBase64Encoded {
		data, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			s.logger.Error(ctx, "response decode error", "error", err.Error())
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := w.Write(data); err != nil {
			s.logger.Error(ctx, "response write error", "error", err.Error())
		}
		return
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		if _, err := io.WriteString(w, resp.Body); err != nil {
			s.logger.Error(ctx, "response write error", "error", err.Error())
		}
	}
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
