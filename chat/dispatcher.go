package chat

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"fmt"
	"log/slog"
)

type commandHandler func(id domain.ConnID, argument string)

// Dispatcher turns queued inbound text into command calls, once per tick.
type Dispatcher struct {
	log      *slog.Logger
	registry contract.IRegistry
	verbs    []domain.Verb
	commands map[domain.Verb]commandHandler
	help     string
}

func NewDispatcher(log *slog.Logger, registry contract.IRegistry) *Dispatcher {
	return &Dispatcher{
		log:      log,
		registry: registry,
		commands: make(map[domain.Verb]commandHandler),
		help:     domain.HelpMessage(nil),
	}
}

// Register binds verb to handler. Verbs are advertised in registration order.
func (d *Dispatcher) Register(verb domain.Verb, handler commandHandler) {
	if _, exists := d.commands[verb]; !exists {
		d.verbs = append(d.verbs, verb)
	}
	d.commands[verb] = handler
	d.help = domain.HelpMessage(d.verbs)
}

func (d *Dispatcher) lookup(verb domain.Verb) (commandHandler, bool) {
	handler, ok := d.commands[verb]
	return handler, ok
}

// Process dispatches the inbound backlog every connection had when the call started.
func (d *Dispatcher) Process() {
	for _, id := range d.registry.IDs() {
		for _, unit := range d.registry.Drain(id) {
			for _, line := range domain.SplitLines(unit) {
				d.dispatch(id, line)
			}
		}
	}
}

func (d *Dispatcher) dispatch(id domain.ConnID, line string) {
	cmd := domain.ParseCommand(line)
	handler, ok := d.lookup(cmd.Verb)
	if !ok {
		d.log.Debug("Unknown command", "id", id, "verb", cmd.Verb)
		d.registry.Enqueue(id, d.help)
		return
	}
	if err := call(handler, id, cmd.Argument); err != nil {
		d.log.Warn("Command failed", "id", id, "verb", cmd.Verb, "error", err)
		d.registry.Enqueue(id, d.help)
	}
}

func call(handler commandHandler, id domain.ConnID, argument string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panic: %v", r)
		}
	}()
	handler(id, argument)
	return nil
}
