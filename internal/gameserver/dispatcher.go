package gameserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/observability"
	"github.com/cory-johannsen/angler/internal/storage"
)

// Notifier delivers text a player did not ask for, such as an auto-reel
// result. Notify reports whether the text reached the player.
type Notifier interface {
	Notify(uid, text string) bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAutoReel reels outstanding casts when their advisory duration elapses
// and delivers the result through n.
func WithAutoReel(n Notifier) DispatcherOption {
	return func(d *Dispatcher) {
		d.notifier = n
		d.reeler = NewAutoReeler(d.AutoReel)
	}
}

// WithStoreTimeout bounds every storage call made by a turn.
func WithStoreTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// Dispatcher turns one chat line into one reply. A turn loads the record,
// runs exactly one engine operation and saves the record only when the
// operation changed it.
type Dispatcher struct {
	engine   *Engine
	store    storage.Store
	registry *command.Registry
	render   *Renderer
	locks    *userLocks
	reeler   *AutoReeler
	notifier Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: engine, store, registry and logger must be non-nil.
func NewDispatcher(engine *Engine, store storage.Store, registry *command.Registry, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		engine:   engine,
		store:    store,
		registry: registry,
		render:   NewRenderer(engine.Rules()),
		locks:    newUserLocks(),
		timeout:  5 * time.Second,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Renderer returns the renderer used for replies.
func (d *Dispatcher) Renderer() *Renderer { return d.render }

// turn is the outcome of one handler: the reply and whether the record must
// be saved.
type turn struct {
	reply   string
	mutated bool
	cast    *CastView
	reeled  bool
}

// Handle runs the turn for uid. An empty reply means the line was not a
// command and the transport should stay silent.
//
// Postcondition: the stored record is replaced only when an operation
// succeeded and changed it.
func (d *Dispatcher) Handle(ctx context.Context, uid, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	unlock := d.locks.lock(uid)
	defer unlock()

	logger := observability.PlayerLogger(d.logger, uid)
	p, err := d.load(ctx, uid)
	if err != nil {
		logger.Error("loading player", zap.Error(err))
		return RetryText
	}

	t, err := d.run(p, text)
	if err != nil {
		logger.Error("running command", zap.String("text", text), zap.Error(err))
		return RetryText
	}
	if !t.mutated {
		return t.reply
	}
	if err := d.save(ctx, p); err != nil {
		logger.Error("saving player", zap.Error(err))
		return RetryText
	}
	logger.Debug("turn saved", zap.String("text", text))

	if d.reeler != nil {
		switch {
		case t.cast != nil:
			d.reeler.Schedule(uid, t.cast.ReadyAt.Sub(d.engine.Clock().Now()))
		case t.reeled:
			d.reeler.Cancel(uid)
		}
	}
	return t.reply
}

// AutoReel resolves the outstanding cast of uid, saves it and notifies the
// player. It does nothing when the player already reeled.
func (d *Dispatcher) AutoReel(uid string) {
	unlock := d.locks.lock(uid)
	defer unlock()

	ctx := context.Background()
	logger := observability.PlayerLogger(d.logger, uid)
	p, err := d.load(ctx, uid)
	if err != nil {
		logger.Error("loading player for auto-reel", zap.Error(err))
		return
	}
	if !p.IsCasting() {
		return
	}
	v, err := d.engine.Reel(p)
	if err != nil {
		logger.Error("auto-reel", zap.Error(err))
		return
	}
	if err := d.save(ctx, p); err != nil {
		logger.Error("saving player after auto-reel", zap.Error(err))
		return
	}
	if d.notifier != nil && !d.notifier.Notify(uid, d.render.Reel(v)) {
		logger.Debug("auto-reel result not delivered")
	}
}

// Close stops pending auto-reel timers.
func (d *Dispatcher) Close() {
	if d.reeler != nil {
		d.reeler.Close()
	}
}

func (d *Dispatcher) load(ctx context.Context, uid string) (*player.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	p, err := d.store.Load(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return d.engine.NewPlayer(uid), nil
	}
	if err != nil {
		return nil, err
	}
	d.engine.Prepare(p)
	return p, nil
}

func (d *Dispatcher) save(ctx context.Context, p *player.Player) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.store.Save(ctx, p)
}

// resolve finds the command for a parsed line. A cast written without a
// space, such as "/낚시15s", is split before lookup.
func (d *Dispatcher) resolve(pr command.ParseResult) (*command.Command, command.ParseResult, bool) {
	if cmd, ok := d.registry.Resolve(pr.Command); ok {
		return cmd, pr, true
	}
	for _, cmd := range d.registry.Commands() {
		if cmd.Handler != command.HandlerCast {
			continue
		}
		for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
			rest, found := strings.CutPrefix(pr.Command, name)
			if !found || rest == "" {
				continue
			}
			if _, err := command.ParseSeconds(rest); err == nil {
				pr.Args = append([]string{rest}, pr.Args...)
				pr.RawArgs = strings.Join(pr.Args, " ")
				pr.Command = name
				return cmd, pr, true
			}
		}
	}
	return nil, pr, false
}

// run executes one line against p. A non-nil error is an infrastructure
// failure; game rejections are rendered into the reply.
func (d *Dispatcher) run(p *player.Player, text string) (turn, error) {
	pr := command.Parse(text)
	cmd, pr, ok := d.resolve(pr)

	if !p.HasNickname() {
		if !ok {
			return turn{}, nil
		}
		switch cmd.Handler {
		case command.HandlerHome:
			return turn{reply: WelcomeText}, nil
		case command.HandlerNickname:
			return d.dispatch(p, cmd, pr)
		}
		return turn{}, nil
	}

	if !ok {
		if !strings.HasPrefix(pr.Command, "/") {
			return turn{}, nil
		}
		guess, found := d.registry.Suggest(pr.Command)
		return turn{reply: d.render.Suggestion(pr.Command, guess, found)}, nil
	}
	return d.dispatch(p, cmd, pr)
}

func (d *Dispatcher) dispatch(p *player.Player, cmd *command.Command, pr command.ParseResult) (turn, error) {
	usage := func() (turn, error) {
		return turn{reply: d.render.Usage(strings.TrimSpace(cmd.Name + " " + cmd.Usage))}, nil
	}
	e := d.engine

	switch cmd.Handler {
	case command.HandlerHome:
		return turn{reply: d.render.Home(e.Status(p), e.Bag(p))}, nil
	case command.HandlerStatus:
		return turn{reply: d.render.Status(e.Status(p))}, nil
	case command.HandlerBag:
		return turn{reply: d.render.Bag(e.Bag(p))}, nil
	case command.HandlerRecords:
		return turn{reply: d.render.Records(e.Records(p))}, nil
	case command.HandlerShop:
		return turn{reply: d.render.Shop(e.Shop(p))}, nil

	case command.HandlerNickname:
		if pr.RawArgs == "" {
			return usage()
		}
		v, err := e.SetNickname(p, pr.RawArgs)
		return d.finish(err, func() string { return d.render.Nickname(v) })

	case command.HandlerLocation:
		if len(pr.Args) == 0 {
			return usage()
		}
		v, err := e.SetLocation(p, pr.Args[0])
		return d.finish(err, func() string { return d.render.Location(v) })

	case command.HandlerCast:
		var location, raw string
		switch len(pr.Args) {
		case 1:
			raw = pr.Args[0]
		case 2:
			location, raw = pr.Args[0], pr.Args[1]
		default:
			return usage()
		}
		seconds, err := command.ParseSeconds(raw)
		if err != nil {
			return usage()
		}
		v, err := e.StartCast(p, location, seconds)
		t, ferr := d.finish(err, func() string { return d.render.Cast(v) })
		if err == nil {
			t.cast = &v
		}
		return t, ferr

	case command.HandlerReel:
		v, err := e.Reel(p)
		t, ferr := d.finish(err, func() string { return d.render.Reel(v) })
		t.reeled = err == nil
		return t, ferr

	case command.HandlerBuy:
		name, qty, err := command.SplitNameQuantity(pr.Args)
		if err != nil {
			return usage()
		}
		v, err := e.Buy(p, name, qty)
		return d.finish(err, func() string { return d.render.Purchase(v) })

	case command.HandlerSell:
		if len(pr.Args) == 1 {
			if _, err := command.ParseQuantity(pr.Args[0]); err == nil {
				v, err := e.Sell(p, pr.Args[0], 1)
				return d.finish(err, func() string { return d.render.Sale(v) })
			}
		}
		name, qty, err := command.SplitNameQuantity(pr.Args)
		if err != nil {
			return usage()
		}
		v, err := e.Sell(p, name, qty)
		return d.finish(err, func() string { return d.render.Sale(v) })

	case command.HandlerSellAll:
		v, err := e.SellAll(p)
		return d.finish(err, func() string { return d.render.PendingSale(v) })
	case command.HandlerConfirmSale:
		v, err := e.ConfirmSale(p)
		return d.finish(err, func() string { return d.render.SaleConfirmed(v) })
	case command.HandlerCancelSale:
		v, err := e.CancelSale(p)
		return d.finish(err, func() string { return d.render.SaleCancelled(v) })

	case command.HandlerEquip:
		if pr.RawArgs == "" {
			return usage()
		}
		v, err := e.Equip(p, pr.RawArgs)
		return d.finish(err, func() string { return d.render.Equip(v) })

	case command.HandlerBooster:
		v, err := e.UseBooster(p)
		return d.finish(err, func() string { return d.render.Booster(v) })

	case command.HandlerChemicalLight:
		tag, ok := command.FirstNumber(pr.Args)
		if !ok {
			return usage()
		}
		v, err := e.UseChemicalLight(p, tag)
		return d.finish(err, func() string { return d.render.ChemicalLight(v) })

	case command.HandlerAttendance:
		v, err := e.Attendance(p)
		return d.finish(err, func() string { return d.render.Attendance(v) })
	case command.HandlerNewbie:
		v, err := e.NewbieChance(p)
		return d.finish(err, func() string { return d.render.Newbie(v) })
	}
	d.logger.Warn("command without handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
	return turn{}, nil
}

// finish converts an operation result into a turn.
func (d *Dispatcher) finish(err error, render func() string) (turn, error) {
	if err == nil {
		return turn{reply: render(), mutated: true}, nil
	}
	if ge, ok := AsGameError(err); ok {
		return turn{reply: d.render.Error(ge)}, nil
	}
	return turn{}, err
}
