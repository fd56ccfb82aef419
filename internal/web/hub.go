// Package web serves the layer stack to browser renderers over a websocket
// and feeds their pick events back into the selection.
package web

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"geoarcs/internal/dataset"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
	"geoarcs/internal/selection"
)

// sendBuffer is how many messages a slow client may fall behind before it
// is dropped.
const sendBuffer = 16

// ErrStopped is returned by calls made after the hub stopped.
var ErrStopped = errors.New("web: hub stopped")

type command interface {
	execute(h *Hub)
}

// Hub owns the dataset, the selection store and the connected clients. All
// of them are touched only from the Run goroutine; everything else talks to
// the hub through its command channel.
type Hub struct {
	source   *dataset.Source
	store    *selection.Store
	bridge   *interaction.Bridge
	composer layers.Composer
	view     interaction.ViewState

	clients  map[string]chan []byte
	current  []layers.Descriptor
	commands chan command
	done     chan struct{}
	log      *zap.Logger
}

func NewHub(store *selection.Store, bridge *interaction.Bridge, composer layers.Composer, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		source:   &dataset.Source{},
		store:    store,
		bridge:   bridge,
		composer: composer,
		view:     bridge.InitialView(),
		clients:  make(map[string]chan []byte),
		commands: make(chan command),
		done:     make(chan struct{}),
		log:      log.Named("hub"),
	}
	h.current = composer.ComposeFrom(h.source, store.Snapshot())
	store.Subscribe(h.onSelection)
	return h
}

// Run processes commands until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, send := range h.clients {
				close(send)
				delete(h.clients, id)
			}
			h.log.Info("hub stopped")
			return
		case cmd := <-h.commands:
			cmd.execute(h)
		}
	}
}

// do hands cmd to the Run goroutine. It reports false once the hub stopped.
func (h *Hub) do(cmd command) bool {
	select {
	case h.commands <- cmd:
		return true
	case <-h.done:
		return false
	}
}

// blocking API

// Register adds a client and returns the channel its messages arrive on. The
// channel starts with the view and the current layer stack and is closed when
// the client is dropped or the hub stops.
func (h *Hub) Register(id string) (<-chan []byte, bool) {
	reply := make(chan chan []byte, 1)
	if !h.do(&registerCommand{id: id, reply: reply}) {
		return nil, false
	}
	return <-reply, true
}

func (h *Hub) Unregister(id string) {
	h.do(&unregisterCommand{id: id})
}

// Pick applies a pick from client id. A rejected selection is reported to
// that client and returned.
func (h *Hub) Pick(id string, r interaction.PickResult) error {
	reply := make(chan error, 1)
	if !h.do(&pickCommand{id: id, result: r, reply: reply}) {
		return ErrStopped
	}
	return <-reply
}

// Reject sends err to a single client.
func (h *Hub) Reject(id string, err error) {
	h.do(&rejectCommand{id: id, err: err})
}

// DatasetLoaded installs a finished load and pushes the new stack.
func (h *Hub) DatasetLoaded(res dataset.Result) {
	h.do(&datasetCommand{result: res})
}

// Layers returns the current layer stack.
func (h *Hub) Layers() []layers.Descriptor {
	reply := make(chan []layers.Descriptor, 1)
	if !h.do(&layersCommand{reply: reply}) {
		return nil
	}
	return <-reply
}

// View is the initial camera; it never changes after startup.
func (h *Hub) View() interaction.ViewState { return h.view }

// commands implementations

type registerCommand struct {
	id    string
	reply chan chan []byte
}

func (c *registerCommand) execute(h *Hub) {
	send := make(chan []byte, sendBuffer)
	h.clients[c.id] = send
	h.sendTo(c.id, viewMessage(h.view))
	h.sendTo(c.id, layersMessage(h.current))
	h.log.Debug("client registered", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
	c.reply <- send
}

type unregisterCommand struct {
	id string
}

func (c *unregisterCommand) execute(h *Hub) {
	h.drop(c.id)
}

type pickCommand struct {
	id     string
	result interaction.PickResult
	reply  chan error
}

func (c *pickCommand) execute(h *Hub) {
	err := h.bridge.OnPick(c.result)
	if err != nil {
		h.log.Warn("pick rejected", zap.String("client", c.id), zap.Error(err))
		h.sendTo(c.id, errorMessage(err))
	}
	c.reply <- err
}

type rejectCommand struct {
	id  string
	err error
}

func (c *rejectCommand) execute(h *Hub) {
	h.sendTo(c.id, errorMessage(c.err))
}

type datasetCommand struct {
	result dataset.Result
}

func (c *datasetCommand) execute(h *Hub) {
	if c.result.Err != nil {
		h.broadcast(errorMessage(c.result.Err))
		return
	}
	h.source.Resolve(c.result.Features, c.result.Origin)
	h.recompose(h.store.Snapshot())
}

type layersCommand struct {
	reply chan []layers.Descriptor
}

func (c *layersCommand) execute(h *Hub) {
	c.reply <- h.current
}

// onSelection runs on the Run goroutine, inside the pick command that
// changed the selection.
func (h *Hub) onSelection(st selection.State) {
	h.recompose(st)
}

func (h *Hub) recompose(st selection.State) {
	h.current = h.composer.ComposeFrom(h.source, st)
	h.broadcast(layersMessage(h.current))
}

func (h *Hub) broadcast(msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	for id := range h.clients {
		h.enqueue(id, data)
	}
}

func (h *Hub) sendTo(id string, msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	h.enqueue(id, data)
}

func (h *Hub) enqueue(id string, data []byte) {
	send, ok := h.clients[id]
	if !ok {
		return
	}
	select {
	case send <- data:
	default:
		h.log.Warn("client too slow, dropping", zap.String("client", id))
		h.drop(id)
	}
}

func (h *Hub) drop(id string) {
	send, ok := h.clients[id]
	if !ok {
		return
	}
	close(send)
	delete(h.clients, id)
	h.log.Debug("client unregistered", zap.String("client", id), zap.Int("clients", len(h.clients)))
}
