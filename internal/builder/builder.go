package builder

import (
	"log/slog"

	"github.com/pulsekit/pulsekit/internal/backend"
	"github.com/pulsekit/pulsekit/internal/circuit"
	"github.com/pulsekit/pulsekit/internal/compiler"
	"github.com/pulsekit/pulsekit/internal/sched"
	"github.com/pulsekit/pulsekit/internal/transform"
)

// TranslateFunc turns a buffered gate-level sub-program into a pulse
// schedule. It must be deterministic for fixed inputs.
type TranslateFunc func(c *circuit.Circuit, b *backend.Backend, topts compiler.TranspileOptions, sopts compiler.ScheduleOptions) (*sched.Schedule, error)

// Builder is the stateful authoring context. Zero or more scope frames
// are open while a program function runs; every authoring call operates
// on the top frame. Builders are created by Build and must not be used
// after Build returns.
type Builder struct {
	backend   *backend.Backend
	translate TranslateFunc
	nameGen   NameGenerator
	log       *slog.Logger

	defaultAlignment string
	name             string

	topts compiler.TranspileOptions
	sopts compiler.ScheduleOptions

	frames  []*frame
	pending *circuit.Circuit
}

// Option configures a builder.
type Option func(*Builder)

// WithBackend attaches a device directory, enabling qubit-addressed
// operations, macros and circuit calls.
func WithBackend(b *backend.Backend) Option {
	return func(bd *Builder) { bd.backend = b }
}

// WithDefaultAlignment sets the alignment policy of the outermost scope.
// One of "left" (default), "right" or "sequential".
func WithDefaultAlignment(name string) Option {
	return func(bd *Builder) { bd.defaultAlignment = name }
}

// WithName names the finished program. Without it a unique name is
// generated.
func WithName(name string) Option {
	return func(bd *Builder) { bd.name = name }
}

// WithNameGenerator overrides the program name generator.
func WithNameGenerator(g NameGenerator) Option {
	return func(bd *Builder) { bd.nameGen = g }
}

// WithTranslator overrides the circuit-to-schedule translator. Tests use
// this to observe buffering boundaries.
func WithTranslator(t TranslateFunc) Option {
	return func(bd *Builder) { bd.translate = t }
}

// WithTranspileOptions sets the default gate-level rewriting options.
func WithTranspileOptions(opts compiler.TranspileOptions) Option {
	return func(bd *Builder) { bd.topts = opts }
}

// WithScheduleOptions sets the default circuit scheduling options.
func WithScheduleOptions(opts compiler.ScheduleOptions) Option {
	return func(bd *Builder) { bd.sopts = opts }
}

// WithLogger overrides the builder's logger.
func WithLogger(log *slog.Logger) Option {
	return func(bd *Builder) { bd.log = log }
}

// Build opens an authoring context, runs the program function against it,
// and compiles the result: the outermost frame is closed with the default
// alignment policy and scheduling directives are removed. The context is
// released when Build returns, on success and error alike; the Builder
// handle must not escape the program function.
func Build(program func(b *Builder) error, opts ...Option) (*sched.Schedule, error) {
	b := &Builder{
		translate:        compiler.Translate,
		nameGen:          UUIDv7Generator{},
		log:              slog.Default(),
		defaultAlignment: AlignmentLeft,
	}
	for _, opt := range opts {
		opt(b)
	}

	rootCloser, err := alignmentCloser(b.defaultAlignment)
	if err != nil {
		return nil, err
	}
	b.frames = []*frame{newFrame(b.defaultAlignment, rootCloser)}
	defer func() { b.frames = nil }()

	if err := program(b); err != nil {
		return nil, err
	}
	return b.finish()
}

// finish flushes the lazy buffer, closes the outermost frame, and strips
// directives from the final fragment.
func (b *Builder) finish() (*sched.Schedule, error) {
	if err := b.flush(); err != nil {
		return nil, err
	}
	root := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]

	aligned, err := root.close(root)
	if err != nil {
		return nil, err
	}
	program, err := transform.RemoveDirectives(aligned)
	if err != nil {
		return nil, err
	}

	name := b.name
	if name == "" {
		name = b.nameGen.Generate()
	}
	program = sched.Rename(program, name)
	b.log.Debug("program compiled",
		"name", name,
		"duration", program.Duration(),
		"instructions", len(program.Instructions()))
	return program, nil
}

// active returns the top frame, or a no-active-context error when the
// builder has been released or misused outside Build.
func (b *Builder) active() (*frame, error) {
	if len(b.frames) == 0 {
		return nil, &sched.Error{
			Code:    sched.ErrCodeNoActiveContext,
			Message: "authoring call outside an open builder context",
		}
	}
	return b.frames[len(b.frames)-1], nil
}

// requireBackend fails with a backend-unconfigured error when no device
// directory is attached.
func (b *Builder) requireBackend() (*backend.Backend, error) {
	if b.backend == nil {
		return nil, &sched.Error{
			Code:    sched.ErrCodeBackendUnconfigured,
			Message: "this operation requires a builder with a backend",
		}
	}
	return b.backend, nil
}

// Backend returns the attached device directory, or nil.
func (b *Builder) Backend() *backend.Backend { return b.backend }

// appendFragment flushes the lazy buffer and adds a fragment to the top
// frame in arrival order.
func (b *Builder) appendFragment(f *sched.Schedule) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if err := b.flush(); err != nil {
		return err
	}
	fr, err := b.active()
	if err != nil {
		return err
	}
	return fr.append(f)
}

// Duration returns the top frame's accumulated duration. Reading builder
// state forces translation of any pending sub-program first.
func (b *Builder) Duration() (int64, error) {
	if _, err := b.active(); err != nil {
		return 0, err
	}
	if err := b.flush(); err != nil {
		return 0, err
	}
	fr, err := b.active()
	if err != nil {
		return 0, err
	}
	return fr.acc.Duration(), nil
}

// scope pushes a frame, runs the body, then closes the frame and appends
// its transformed fragment to the parent. Entering and closing a scope
// both flush the lazy buffer. On a body error the frame is discarded and
// the error propagates unchanged.
func (b *Builder) scope(label string, close closer, body func() error) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if err := b.flush(); err != nil {
		return err
	}
	b.frames = append(b.frames, newFrame(label, close))

	if err := body(); err != nil {
		b.frames = b.frames[:len(b.frames)-1]
		return err
	}
	if err := b.flush(); err != nil {
		b.frames = b.frames[:len(b.frames)-1]
		return err
	}

	fr := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	out, err := fr.close(fr)
	if err != nil {
		return err
	}
	parent, err := b.active()
	if err != nil {
		return err
	}
	return parent.append(out)
}

// Align opens a nested scope with the named alignment policy.
func (b *Builder) Align(name string, body func() error) error {
	cl, err := alignmentCloser(name)
	if err != nil {
		return err
	}
	return b.scope(name, cl, body)
}

// AlignLeft schedules the scope's contents as early as possible;
// independent channels proceed in parallel.
func (b *Builder) AlignLeft(body func() error) error {
	return b.Align(AlignmentLeft, body)
}

// AlignRight schedules the scope's contents as late as possible, packed
// against the scope's right edge.
func (b *Builder) AlignRight(body func() error) error {
	return b.Align(AlignmentRight, body)
}

// AlignSequential schedules the scope's contents strictly one after
// another regardless of channel independence.
func (b *Builder) AlignSequential(body func() error) error {
	return b.Align(AlignmentSequential, body)
}

// Group fixes the relative timing of the scope's contents; the parent
// scope treats the result as one atomic unit.
func (b *Builder) Group(body func() error) error {
	return b.scope("group", groupCloser, body)
}

// Pad fills idle gaps on the given channels (all scope channels when none
// are given) with delays when the scope closes, so later composition
// cannot insert anything into the scope's span.
func (b *Builder) Pad(body func() error, channels ...sched.Channel) error {
	return b.scope("pad", padCloser(channels), body)
}

// Inline dissolves the scope's contents into the parent: each leaf is
// appended individually, inheriting the parent's scheduling policy.
// Scheduling decisions made inside the scope are discarded.
func (b *Builder) Inline(body func() error) error {
	if _, err := b.active(); err != nil {
		return err
	}
	if err := b.flush(); err != nil {
		return err
	}
	b.frames = append(b.frames, newFrame("inline", groupCloser))

	if err := body(); err != nil {
		b.frames = b.frames[:len(b.frames)-1]
		return err
	}
	if err := b.flush(); err != nil {
		b.frames = b.frames[:len(b.frames)-1]
		return err
	}

	fr := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	parent, err := b.active()
	if err != nil {
		return err
	}
	for _, f := range fr.fragments {
		for _, ti := range f.Instructions() {
			if err := parent.append(sched.NewLeaf(ti.Instruction)); err != nil {
				return err
			}
		}
	}
	return nil
}
