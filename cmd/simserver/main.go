package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kedfre/portfolio-sub000/internal/physics"
	"github.com/kedfre/portfolio-sub000/internal/shared/logger"
	"github.com/kedfre/portfolio-sub000/internal/shared/types"
	"github.com/kedfre/portfolio-sub000/internal/vehicle"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type server struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	simMu      sync.Mutex
	world      *physics.World
	controller *vehicle.Controller
	input      types.ControlInput
	tick       uint64

	mu      sync.RWMutex
	clients map[string]*client
}

func main() {
	log := logger.New("simserver")
	addr := getEnv("SIM_ADDR", ":9100")
	variant := getEnv("SIM_VARIANT", "coupe")
	profilePath := getEnv("SIM_PROFILE", "")
	hz := getEnvInt("SIM_HZ", 60)

	opts, err := vehicle.ProfileFor(variant)
	if err != nil {
		log.Fatalf("bad variant: %v", err)
	}
	if profilePath != "" {
		opts, err = vehicle.LoadProfile(profilePath, opts)
		if err != nil {
			log.Fatalf("bad profile: %v", err)
		}
	}

	world := physics.NewWorld(physics.DefaultOptions())
	controller, err := vehicle.NewController(world, opts, logger.New("vehicle"))
	if err != nil {
		log.Fatalf("vehicle construction failed: %v", err)
	}

	s := &server{
		log:        log,
		world:      world,
		controller: controller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*client),
	}

	go s.runSimulationLoop(hz)
	go s.runReplicationLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/ws", s.handleWS)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("vehicle sim server listening on %s (variant=%s hz=%d)", addr, variant, hz)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.simMu.Lock()
	tick := s.tick
	faults := s.world.NumericFaults()
	bodies := s.world.BodyCount()
	s.simMu.Unlock()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = fmt.Fprintln(w, "# HELP sim_ticks_total Simulation steps executed")
	_, _ = fmt.Fprintln(w, "# TYPE sim_ticks_total counter")
	_, _ = fmt.Fprintf(w, "sim_ticks_total %d\n", tick)
	_, _ = fmt.Fprintln(w, "# HELP sim_numeric_faults_total Bodies rewound after non-finite state")
	_, _ = fmt.Fprintln(w, "# TYPE sim_numeric_faults_total counter")
	_, _ = fmt.Fprintf(w, "sim_numeric_faults_total %d\n", faults)
	_, _ = fmt.Fprintf(w, "sim_bodies %d\n", bodies)
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = fmt.Sprintf("viewer_%d", time.Now().UTC().UnixNano())
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{id: clientID, conn: conn, send: make(chan []byte, 64)}
	s.register(c)
	s.log.Printf("client connected id=%s remote=%s", clientID, r.RemoteAddr)

	welcome := types.ServerEnvelope{
		Type:     "welcome",
		State:    s.snapshotPtr(),
		ServerMS: time.Now().UTC().UnixMilli(),
		Message:  "connected",
	}
	if payload, err := json.Marshal(welcome); err == nil {
		select {
		case c.send <- payload:
		default:
		}
	}

	go s.writePump(c)
	s.readPump(c)
}

func (s *server) readPump(c *client) {
	defer func() {
		s.unregister(c.id)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Printf("client disconnected id=%s", c.id)
				return
			}
			s.log.Printf("read error id=%s err=%v", c.id, err)
			return
		}

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			s.sendError(c, "bad_payload")
			continue
		}

		switch in.Type {
		case "input":
			if in.Input == nil {
				s.sendError(c, "missing_input")
				continue
			}
			s.simMu.Lock()
			if in.Input.Sequence >= s.input.Sequence {
				s.input = *in.Input
			}
			s.simMu.Unlock()
		case "reset":
			s.simMu.Lock()
			s.controller.Reset()
			s.simMu.Unlock()
		case "ping":
			pong := types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()}
			if payload, err := json.Marshal(pong); err == nil {
				select {
				case c.send <- payload:
				default:
				}
			}
		default:
			s.sendError(c, "unsupported_message_type")
		}
	}
}

func (s *server) writePump(c *client) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

func (s *server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
}

func (s *server) unregister(id string) {
	s.mu.Lock()
	if c, ok := s.clients[id]; ok {
		close(c.send)
		delete(s.clients, id)
	}
	s.mu.Unlock()
}

func (s *server) sendError(c *client, message string) {
	errPayload, _ := json.Marshal(types.ServerEnvelope{
		Type:    "error",
		Message: message,
	})
	select {
	case c.send <- errPayload:
	default:
	}
}

// runSimulationLoop drives the fixed-step world: control law first, then
// the step, in that order every tick.
func (s *server) runSimulationLoop(hz int) {
	if hz <= 0 {
		hz = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()
	dt := 1.0 / float64(hz)

	for range ticker.C {
		s.simMu.Lock()
		in := s.input
		actions := vehicle.Actions{
			Up: in.Up, Down: in.Down,
			Left: in.Left, Right: in.Right,
			Brake: in.Brake, Boost: in.Boost,
		}
		joy := vehicle.Joystick{Active: in.JoystickActive, Angle: in.JoystickAngle}
		s.controller.Tick(actions, joy, dt)
		s.world.Step(dt)
		s.tick++
		s.simMu.Unlock()
	}
}

func (s *server) runReplicationLoop() {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for range ticker.C {
		state := s.snapshotPtr()
		env := types.ServerEnvelope{
			Type:     "state",
			Tick:     state.Tick,
			State:    state,
			ServerMS: time.Now().UTC().UnixMilli(),
		}
		payload, err := json.Marshal(env)
		if err != nil {
			s.log.Printf("marshal state failed: %v", err)
			continue
		}

		s.mu.RLock()
		for _, c := range s.clients {
			select {
			case c.send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

func (s *server) snapshotPtr() *types.VehicleState {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	state := s.controller.Snapshot(s.tick)
	return &state
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
