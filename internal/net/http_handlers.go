package net

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"shopnav/server/internal/layout"
	"shopnav/server/internal/nav"
	"shopnav/server/internal/net/ws"
	"shopnav/server/internal/store"
	"shopnav/server/logging"
	"shopnav/server/logging/routing"
)

// LayoutStore is the persistence surface the handlers need; satisfied by
// *store.Store.
type LayoutStore interface {
	SaveLayout(layout.Store) error
	LoadLayout() (layout.Store, error)
	UpsertProduct(layout.Product) (layout.Product, error)
	GetProduct(string) (layout.Product, error)
	ListProducts() ([]layout.Product, error)
	DeleteProduct(string) error
}

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    *log.Logger
	Publisher logging.Publisher
}

type startPayload struct {
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Floor int     `json:"floor"`
}

type targetPayload struct {
	BayID   string  `json:"bayId"`
	ShelfID string  `json:"shelfId,omitempty"`
	Floor   int     `json:"floor"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
}

type routeRequest struct {
	Start     startPayload   `json:"start"`
	ProductID string         `json:"productId,omitempty"`
	Target    *targetPayload `json:"target,omitempty"`
}

type routeResponse struct {
	Found    bool           `json:"found"`
	Path     []nav.PathNode `json:"path"`
	Fallback []nav.PathNode `json:"fallback,omitempty"`
	Degraded bool           `json:"degraded,omitempty"`
}

type layoutBroadcast struct {
	Type   string       `json:"type"`
	Layout layout.Store `json:"layout"`
}

// NewHTTPHandler wires the REST surface the editor and 3D viewer talk to.
func NewHTTPHandler(st LayoutStore, hub *ws.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/layout", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.Method {
		case nethttp.MethodGet:
			doc, err := st.LoadLayout()
			if errors.Is(err, store.ErrNotFound) {
				httpError(w, "no layout", nethttp.StatusNotFound)
				return
			}
			if err != nil {
				logger.Printf("failed to load layout: %v", err)
				httpError(w, "failed to load", nethttp.StatusInternalServerError)
				return
			}
			writeJSON(w, doc)
		case nethttp.MethodPut:
			if r.Body == nil {
				httpError(w, "missing body", nethttp.StatusBadRequest)
				return
			}
			defer r.Body.Close()
			var doc layout.Store
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil && err != io.EOF {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
			doc = doc.Normalized()
			if err := st.SaveLayout(doc); err != nil {
				logger.Printf("failed to save layout: %v", err)
				httpError(w, "failed to save", nethttp.StatusInternalServerError)
				return
			}
			routing.LayoutUpdated(r.Context(), publisher, doc.Name, len(doc.Floors))
			go hub.Broadcast(layoutBroadcast{Type: "layout", Layout: doc})
			writeJSON(w, doc)
		default:
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/products", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.Method {
		case nethttp.MethodGet:
			products, err := st.ListProducts()
			if err != nil {
				logger.Printf("failed to list products: %v", err)
				httpError(w, "failed to list", nethttp.StatusInternalServerError)
				return
			}
			if products == nil {
				products = []layout.Product{}
			}
			writeJSON(w, products)
		case nethttp.MethodPost:
			if r.Body == nil {
				httpError(w, "missing body", nethttp.StatusBadRequest)
				return
			}
			defer r.Body.Close()
			var p layout.Product
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
			saved, err := st.UpsertProduct(p)
			if err != nil {
				logger.Printf("failed to save product: %v", err)
				httpError(w, "failed to save", nethttp.StatusInternalServerError)
				return
			}
			routing.ProductUpdated(r.Context(), publisher, saved.ID)
			writeJSON(w, saved)
		case nethttp.MethodDelete:
			id := r.URL.Query().Get("id")
			if id == "" {
				httpError(w, "missing id", nethttp.StatusBadRequest)
				return
			}
			err := st.DeleteProduct(id)
			if errors.Is(err, store.ErrNotFound) {
				httpError(w, "unknown product", nethttp.StatusNotFound)
				return
			}
			if err != nil {
				logger.Printf("failed to delete product: %v", err)
				httpError(w, "failed to delete", nethttp.StatusInternalServerError)
				return
			}
			w.WriteHeader(nethttp.StatusNoContent)
		default:
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/route", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		if r.Body == nil {
			httpError(w, "missing body", nethttp.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		var req routeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, "invalid payload", nethttp.StatusBadRequest)
			return
		}

		doc, err := st.LoadLayout()
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, "no layout", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			logger.Printf("failed to load layout: %v", err)
			httpError(w, "failed to load", nethttp.StatusInternalServerError)
			return
		}

		target, endNode, err := resolveTarget(st, req)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpError(w, "unknown product", nethttp.StatusNotFound)
				return
			}
			httpError(w, err.Error(), nethttp.StatusBadRequest)
			return
		}

		startNode := nav.PathNode{X: req.Start.X, Z: req.Start.Z, Floor: req.Start.Floor}
		subject := logging.SubjectRef{ID: req.ProductID, Kind: logging.SubjectKindShopper}
		routing.RouteRequested(r.Context(), publisher, subject, routing.RouteRequestedPayload{
			StartFloor: startNode.Floor,
			StartX:     startNode.X,
			StartZ:     startNode.Z,
			BayID:      target.BayID,
			ShelfID:    target.ShelfID,
		})

		began := time.Now()
		path := nav.FindPath(&doc, startNode, target)
		elapsed := time.Since(began)

		resp := routeResponse{Found: len(path) > 0, Path: path}
		if resp.Found {
			routing.RouteCompleted(r.Context(), publisher, subject, routing.RouteCompletedPayload{
				Waypoints: len(path),
				Floors:    floorCount(path),
				Elapsed:   elapsed,
			})
		} else {
			// No route: hand the caller an explicit degraded straight
			// segment so the front-end can still render something.
			resp.Path = []nav.PathNode{}
			resp.Fallback = []nav.PathNode{startNode, endNode}
			resp.Degraded = true
			routing.RouteFailed(r.Context(), publisher, subject, "no route")
		}
		writeJSON(w, resp)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("upgrade failed: %v", err)
			return
		}

		session := hub.Subscribe(r.URL.Query().Get("id"), conn)

		if doc, err := st.LoadLayout(); err == nil {
			data, err := json.Marshal(layoutBroadcast{Type: "layout", Layout: doc})
			if err == nil {
				if err := session.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.Unsubscribe(session.ID())
					return
				}
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unsubscribe(session.ID())
				return
			}
		}
	})

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

// resolveTarget turns the request into an engine target, preferring product
// placement metadata when a product ID is supplied.
func resolveTarget(st LayoutStore, req routeRequest) (nav.Target, nav.PathNode, error) {
	if req.ProductID != "" {
		product, err := st.GetProduct(req.ProductID)
		if err != nil {
			return nav.Target{}, nav.PathNode{}, err
		}
		target := nav.Target{
			BayID:   product.BayID,
			ShelfID: product.ShelfID,
			Floor:   product.Floor,
			Point:   nav.Vec{X: product.X, Y: product.Z},
		}
		return target, nav.PathNode{X: product.X, Z: product.Z, Floor: product.Floor}, nil
	}
	if req.Target == nil {
		return nav.Target{}, nav.PathNode{}, errors.New("missing target")
	}
	target := nav.Target{
		BayID:   req.Target.BayID,
		ShelfID: req.Target.ShelfID,
		Floor:   req.Target.Floor,
		Point:   nav.Vec{X: req.Target.X, Y: req.Target.Z},
	}
	return target, nav.PathNode{X: req.Target.X, Z: req.Target.Z, Floor: req.Target.Floor}, nil
}

func floorCount(path []nav.PathNode) int {
	seen := make(map[int]struct{}, 2)
	for _, node := range path {
		seen[node.Floor] = struct{}{}
	}
	return len(seen)
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
