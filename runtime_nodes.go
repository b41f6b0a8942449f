package flowz

import "context"

// Typed runtime variants, generalized over input arity K and output arity L
// (K, L in 0..3, K+L >= 1). Every variant is a thin shell over the shared
// NodeRuntime loop: the pause poll, the input join, selective output emission
// and graceful shutdown all live in the base; each shell only owns its typed
// channel endpoints and the user processing function. The 0x0 configuration
// does not exist: there is no constructor for it.
//
// Channel naming: a single input is InputChannel, multiple inputs are
// InputChannel1..K; same scheme for outputs. Input channels are wired by
// assigning an upstream runtime's output channel before Start. Output
// channels are owned by the runtime: they are created at construction,
// re-created on every restart, and closed when the processing loop exits so
// downstream consumers observe end-of-stream.

// Runner is the lifecycle surface shared by all typed runtime variants.
type Runner interface {
	Start(ctx context.Context) error
	Stop()
	Pause()
	Resume()
	Wait()
	State() ExecutionState
	Err() error
}

// GeneratorFunc produces one value per invocation. The function decides when
// to produce (for example on a timer via the runtime's clock); it is
// re-invoked each loop iteration. Returning ErrDone ends the stream.
type GeneratorFunc[O any] func(context.Context) (O, error)

// Generator is the 0-input, 1-output variant.
type Generator[O any] struct {
	*NodeRuntime
	OutputChannel chan O

	fn GeneratorFunc[O]
}

func NewGenerator[O any](name string, fn GeneratorFunc[O], opts ...RuntimeOption) *Generator[O] {
	g := &Generator[O]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	g.OutputChannel = make(chan O, g.outputCap(0))
	return g
}

func (g *Generator[O]) Start(ctx context.Context) error {
	g.Stop()
	g.refreshChannels(func() { g.OutputChannel = make(chan O, g.outputCap(0)) })
	out := g.OutputChannel
	g.begin(ctx, func(ctx context.Context) error {
		v, err := g.fn(ctx)
		if err != nil {
			return err
		}
		return send(ctx, out, v)
	}, func() { close(out) })
	return nil
}

// Generator2Func produces a two-slot result per invocation; nil slots emit
// nothing on that output this cycle.
type Generator2Func[O1, O2 any] func(context.Context) (ProcessResult2[O1, O2], error)

// Generator2 is the 0-input, 2-output variant.
type Generator2[O1, O2 any] struct {
	*NodeRuntime
	OutputChannel1 chan O1
	OutputChannel2 chan O2

	fn Generator2Func[O1, O2]
}

func NewGenerator2[O1, O2 any](name string, fn Generator2Func[O1, O2], opts ...RuntimeOption) *Generator2[O1, O2] {
	g := &Generator2[O1, O2]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	g.OutputChannel1 = make(chan O1, g.outputCap(0))
	g.OutputChannel2 = make(chan O2, g.outputCap(1))
	return g
}

func (g *Generator2[O1, O2]) Start(ctx context.Context) error {
	g.Stop()
	g.refreshChannels(func() {
		g.OutputChannel1 = make(chan O1, g.outputCap(0))
		g.OutputChannel2 = make(chan O2, g.outputCap(1))
	})
	out1, out2 := g.OutputChannel1, g.OutputChannel2
	g.begin(ctx, func(ctx context.Context) error {
		res, err := g.fn(ctx)
		if err != nil {
			return err
		}
		return emit2(ctx, out1, out2, res)
	}, func() { close(out1); close(out2) })
	return nil
}

// Generator3Func produces a three-slot result per invocation.
type Generator3Func[O1, O2, O3 any] func(context.Context) (ProcessResult3[O1, O2, O3], error)

// Generator3 is the 0-input, 3-output variant.
type Generator3[O1, O2, O3 any] struct {
	*NodeRuntime
	OutputChannel1 chan O1
	OutputChannel2 chan O2
	OutputChannel3 chan O3

	fn Generator3Func[O1, O2, O3]
}

func NewGenerator3[O1, O2, O3 any](name string, fn Generator3Func[O1, O2, O3], opts ...RuntimeOption) *Generator3[O1, O2, O3] {
	g := &Generator3[O1, O2, O3]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	g.OutputChannel1 = make(chan O1, g.outputCap(0))
	g.OutputChannel2 = make(chan O2, g.outputCap(1))
	g.OutputChannel3 = make(chan O3, g.outputCap(2))
	return g
}

func (g *Generator3[O1, O2, O3]) Start(ctx context.Context) error {
	g.Stop()
	g.refreshChannels(func() {
		g.OutputChannel1 = make(chan O1, g.outputCap(0))
		g.OutputChannel2 = make(chan O2, g.outputCap(1))
		g.OutputChannel3 = make(chan O3, g.outputCap(2))
	})
	out1, out2, out3 := g.OutputChannel1, g.OutputChannel2, g.OutputChannel3
	g.begin(ctx, func(ctx context.Context) error {
		res, err := g.fn(ctx)
		if err != nil {
			return err
		}
		return emit3(ctx, out1, out2, out3, res)
	}, func() { close(out1); close(out2); close(out3) })
	return nil
}

// SinkFunc consumes one input value per invocation, for its side effect.
type SinkFunc[I any] func(context.Context, I) error

// Sink is the 1-input, 0-output variant.
type Sink[I any] struct {
	*NodeRuntime
	InputChannel chan I

	fn SinkFunc[I]
}

func NewSink[I any](name string, fn SinkFunc[I], opts ...RuntimeOption) *Sink[I] {
	return &Sink[I]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
}

func (s *Sink[I]) Start(ctx context.Context) error {
	if s.InputChannel == nil {
		return ErrInputNotWired
	}
	s.Stop()
	in := s.InputChannel
	s.begin(ctx, func(ctx context.Context) error {
		v, err := recv(ctx, s.NodeRuntime, in)
		if err != nil {
			return err
		}
		return s.fn(ctx, v)
	}, nil)
	return nil
}

// Sink2Func consumes one complete input pair per invocation.
type Sink2Func[I1, I2 any] func(context.Context, I1, I2) error

// Sink2 is the 2-input, 0-output variant. Inputs are joined: the function is
// invoked only once a value is available on each channel.
type Sink2[I1, I2 any] struct {
	*NodeRuntime
	InputChannel1 chan I1
	InputChannel2 chan I2

	fn Sink2Func[I1, I2]
}

func NewSink2[I1, I2 any](name string, fn Sink2Func[I1, I2], opts ...RuntimeOption) *Sink2[I1, I2] {
	return &Sink2[I1, I2]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
}

func (s *Sink2[I1, I2]) Start(ctx context.Context) error {
	if s.InputChannel1 == nil || s.InputChannel2 == nil {
		return ErrInputNotWired
	}
	s.Stop()
	in1, in2 := s.InputChannel1, s.InputChannel2
	s.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, s.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, s.NodeRuntime, in2)
		if err != nil {
			return err
		}
		return s.fn(ctx, a, b)
	}, nil)
	return nil
}

// Sink3Func consumes one complete input triple per invocation.
type Sink3Func[I1, I2, I3 any] func(context.Context, I1, I2, I3) error

// Sink3 is the 3-input, 0-output variant.
type Sink3[I1, I2, I3 any] struct {
	*NodeRuntime
	InputChannel1 chan I1
	InputChannel2 chan I2
	InputChannel3 chan I3

	fn Sink3Func[I1, I2, I3]
}

func NewSink3[I1, I2, I3 any](name string, fn Sink3Func[I1, I2, I3], opts ...RuntimeOption) *Sink3[I1, I2, I3] {
	return &Sink3[I1, I2, I3]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
}

func (s *Sink3[I1, I2, I3]) Start(ctx context.Context) error {
	if s.InputChannel1 == nil || s.InputChannel2 == nil || s.InputChannel3 == nil {
		return ErrInputNotWired
	}
	s.Stop()
	in1, in2, in3 := s.InputChannel1, s.InputChannel2, s.InputChannel3
	s.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, s.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, s.NodeRuntime, in2)
		if err != nil {
			return err
		}
		c, err := recv(ctx, s.NodeRuntime, in3)
		if err != nil {
			return err
		}
		return s.fn(ctx, a, b, c)
	}, nil)
	return nil
}

// ProcessFunc1x1 maps one input value to one output value.
type ProcessFunc1x1[I, O any] func(context.Context, I) (O, error)

// Processor1x1 is the 1-input, 1-output variant.
type Processor1x1[I, O any] struct {
	*NodeRuntime
	InputChannel  chan I
	OutputChannel chan O

	fn ProcessFunc1x1[I, O]
}

func NewProcessor1x1[I, O any](name string, fn ProcessFunc1x1[I, O], opts ...RuntimeOption) *Processor1x1[I, O] {
	p := &Processor1x1[I, O]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel = make(chan O, p.outputCap(0))
	return p
}

func (p *Processor1x1[I, O]) Start(ctx context.Context) error {
	if p.InputChannel == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() { p.OutputChannel = make(chan O, p.outputCap(0)) })
	in, out := p.InputChannel, p.OutputChannel
	p.begin(ctx, func(ctx context.Context) error {
		v, err := recv(ctx, p.NodeRuntime, in)
		if err != nil {
			return err
		}
		o, err := p.fn(ctx, v)
		if err != nil {
			return err
		}
		return send(ctx, out, o)
	}, func() { close(out) })
	return nil
}

// ProcessFunc1x2 maps one input value to a two-slot result.
type ProcessFunc1x2[I, O1, O2 any] func(context.Context, I) (ProcessResult2[O1, O2], error)

// Processor1x2 is the 1-input, 2-output variant.
type Processor1x2[I, O1, O2 any] struct {
	*NodeRuntime
	InputChannel   chan I
	OutputChannel1 chan O1
	OutputChannel2 chan O2

	fn ProcessFunc1x2[I, O1, O2]
}

func NewProcessor1x2[I, O1, O2 any](name string, fn ProcessFunc1x2[I, O1, O2], opts ...RuntimeOption) *Processor1x2[I, O1, O2] {
	p := &Processor1x2[I, O1, O2]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	return p
}

func (p *Processor1x2[I, O1, O2]) Start(ctx context.Context) error {
	if p.InputChannel == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
	})
	in, out1, out2 := p.InputChannel, p.OutputChannel1, p.OutputChannel2
	p.begin(ctx, func(ctx context.Context) error {
		v, err := recv(ctx, p.NodeRuntime, in)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, v)
		if err != nil {
			return err
		}
		return emit2(ctx, out1, out2, res)
	}, func() { close(out1); close(out2) })
	return nil
}

// ProcessFunc1x3 maps one input value to a three-slot result.
type ProcessFunc1x3[I, O1, O2, O3 any] func(context.Context, I) (ProcessResult3[O1, O2, O3], error)

// Processor1x3 is the 1-input, 3-output variant.
type Processor1x3[I, O1, O2, O3 any] struct {
	*NodeRuntime
	InputChannel   chan I
	OutputChannel1 chan O1
	OutputChannel2 chan O2
	OutputChannel3 chan O3

	fn ProcessFunc1x3[I, O1, O2, O3]
}

func NewProcessor1x3[I, O1, O2, O3 any](name string, fn ProcessFunc1x3[I, O1, O2, O3], opts ...RuntimeOption) *Processor1x3[I, O1, O2, O3] {
	p := &Processor1x3[I, O1, O2, O3]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	p.OutputChannel3 = make(chan O3, p.outputCap(2))
	return p
}

func (p *Processor1x3[I, O1, O2, O3]) Start(ctx context.Context) error {
	if p.InputChannel == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
		p.OutputChannel3 = make(chan O3, p.outputCap(2))
	})
	in, out1, out2, out3 := p.InputChannel, p.OutputChannel1, p.OutputChannel2, p.OutputChannel3
	p.begin(ctx, func(ctx context.Context) error {
		v, err := recv(ctx, p.NodeRuntime, in)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, v)
		if err != nil {
			return err
		}
		return emit3(ctx, out1, out2, out3, res)
	}, func() { close(out1); close(out2); close(out3) })
	return nil
}

// ProcessFunc2x1 maps one complete input pair to one output value.
type ProcessFunc2x1[I1, I2, O any] func(context.Context, I1, I2) (O, error)

// Processor2x1 is the 2-input, 1-output variant. Inputs are joined, never
// raced: the function sees exactly one complete pair per iteration.
type Processor2x1[I1, I2, O any] struct {
	*NodeRuntime
	InputChannel1 chan I1
	InputChannel2 chan I2
	OutputChannel chan O

	fn ProcessFunc2x1[I1, I2, O]
}

func NewProcessor2x1[I1, I2, O any](name string, fn ProcessFunc2x1[I1, I2, O], opts ...RuntimeOption) *Processor2x1[I1, I2, O] {
	p := &Processor2x1[I1, I2, O]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel = make(chan O, p.outputCap(0))
	return p
}

func (p *Processor2x1[I1, I2, O]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() { p.OutputChannel = make(chan O, p.outputCap(0)) })
	in1, in2, out := p.InputChannel1, p.InputChannel2, p.OutputChannel
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		o, err := p.fn(ctx, a, b)
		if err != nil {
			return err
		}
		return send(ctx, out, o)
	}, func() { close(out) })
	return nil
}

// ProcessFunc2x2 maps one complete input pair to a two-slot result.
type ProcessFunc2x2[I1, I2, O1, O2 any] func(context.Context, I1, I2) (ProcessResult2[O1, O2], error)

// Processor2x2 is the 2-input, 2-output variant.
type Processor2x2[I1, I2, O1, O2 any] struct {
	*NodeRuntime
	InputChannel1  chan I1
	InputChannel2  chan I2
	OutputChannel1 chan O1
	OutputChannel2 chan O2

	fn ProcessFunc2x2[I1, I2, O1, O2]
}

func NewProcessor2x2[I1, I2, O1, O2 any](name string, fn ProcessFunc2x2[I1, I2, O1, O2], opts ...RuntimeOption) *Processor2x2[I1, I2, O1, O2] {
	p := &Processor2x2[I1, I2, O1, O2]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	return p
}

func (p *Processor2x2[I1, I2, O1, O2]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
	})
	in1, in2, out1, out2 := p.InputChannel1, p.InputChannel2, p.OutputChannel1, p.OutputChannel2
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, a, b)
		if err != nil {
			return err
		}
		return emit2(ctx, out1, out2, res)
	}, func() { close(out1); close(out2) })
	return nil
}

// ProcessFunc2x3 maps one complete input pair to a three-slot result.
type ProcessFunc2x3[I1, I2, O1, O2, O3 any] func(context.Context, I1, I2) (ProcessResult3[O1, O2, O3], error)

// Processor2x3 is the 2-input, 3-output variant.
type Processor2x3[I1, I2, O1, O2, O3 any] struct {
	*NodeRuntime
	InputChannel1  chan I1
	InputChannel2  chan I2
	OutputChannel1 chan O1
	OutputChannel2 chan O2
	OutputChannel3 chan O3

	fn ProcessFunc2x3[I1, I2, O1, O2, O3]
}

func NewProcessor2x3[I1, I2, O1, O2, O3 any](name string, fn ProcessFunc2x3[I1, I2, O1, O2, O3], opts ...RuntimeOption) *Processor2x3[I1, I2, O1, O2, O3] {
	p := &Processor2x3[I1, I2, O1, O2, O3]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	p.OutputChannel3 = make(chan O3, p.outputCap(2))
	return p
}

func (p *Processor2x3[I1, I2, O1, O2, O3]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
		p.OutputChannel3 = make(chan O3, p.outputCap(2))
	})
	in1, in2 := p.InputChannel1, p.InputChannel2
	out1, out2, out3 := p.OutputChannel1, p.OutputChannel2, p.OutputChannel3
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, a, b)
		if err != nil {
			return err
		}
		return emit3(ctx, out1, out2, out3, res)
	}, func() { close(out1); close(out2); close(out3) })
	return nil
}

// ProcessFunc3x1 maps one complete input triple to one output value.
type ProcessFunc3x1[I1, I2, I3, O any] func(context.Context, I1, I2, I3) (O, error)

// Processor3x1 is the 3-input, 1-output variant.
type Processor3x1[I1, I2, I3, O any] struct {
	*NodeRuntime
	InputChannel1 chan I1
	InputChannel2 chan I2
	InputChannel3 chan I3
	OutputChannel chan O

	fn ProcessFunc3x1[I1, I2, I3, O]
}

func NewProcessor3x1[I1, I2, I3, O any](name string, fn ProcessFunc3x1[I1, I2, I3, O], opts ...RuntimeOption) *Processor3x1[I1, I2, I3, O] {
	p := &Processor3x1[I1, I2, I3, O]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel = make(chan O, p.outputCap(0))
	return p
}

func (p *Processor3x1[I1, I2, I3, O]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil || p.InputChannel3 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() { p.OutputChannel = make(chan O, p.outputCap(0)) })
	in1, in2, in3, out := p.InputChannel1, p.InputChannel2, p.InputChannel3, p.OutputChannel
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		c, err := recv(ctx, p.NodeRuntime, in3)
		if err != nil {
			return err
		}
		o, err := p.fn(ctx, a, b, c)
		if err != nil {
			return err
		}
		return send(ctx, out, o)
	}, func() { close(out) })
	return nil
}

// ProcessFunc3x2 maps one complete input triple to a two-slot result.
type ProcessFunc3x2[I1, I2, I3, O1, O2 any] func(context.Context, I1, I2, I3) (ProcessResult2[O1, O2], error)

// Processor3x2 is the 3-input, 2-output variant.
type Processor3x2[I1, I2, I3, O1, O2 any] struct {
	*NodeRuntime
	InputChannel1  chan I1
	InputChannel2  chan I2
	InputChannel3  chan I3
	OutputChannel1 chan O1
	OutputChannel2 chan O2

	fn ProcessFunc3x2[I1, I2, I3, O1, O2]
}

func NewProcessor3x2[I1, I2, I3, O1, O2 any](name string, fn ProcessFunc3x2[I1, I2, I3, O1, O2], opts ...RuntimeOption) *Processor3x2[I1, I2, I3, O1, O2] {
	p := &Processor3x2[I1, I2, I3, O1, O2]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	return p
}

func (p *Processor3x2[I1, I2, I3, O1, O2]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil || p.InputChannel3 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
	})
	in1, in2, in3 := p.InputChannel1, p.InputChannel2, p.InputChannel3
	out1, out2 := p.OutputChannel1, p.OutputChannel2
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		c, err := recv(ctx, p.NodeRuntime, in3)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, a, b, c)
		if err != nil {
			return err
		}
		return emit2(ctx, out1, out2, res)
	}, func() { close(out1); close(out2) })
	return nil
}

// ProcessFunc3x3 maps one complete input triple to a three-slot result.
type ProcessFunc3x3[I1, I2, I3, O1, O2, O3 any] func(context.Context, I1, I2, I3) (ProcessResult3[O1, O2, O3], error)

// Processor3x3 is the 3-input, 3-output variant.
type Processor3x3[I1, I2, I3, O1, O2, O3 any] struct {
	*NodeRuntime
	InputChannel1  chan I1
	InputChannel2  chan I2
	InputChannel3  chan I3
	OutputChannel1 chan O1
	OutputChannel2 chan O2
	OutputChannel3 chan O3

	fn ProcessFunc3x3[I1, I2, I3, O1, O2, O3]
}

func NewProcessor3x3[I1, I2, I3, O1, O2, O3 any](name string, fn ProcessFunc3x3[I1, I2, I3, O1, O2, O3], opts ...RuntimeOption) *Processor3x3[I1, I2, I3, O1, O2, O3] {
	p := &Processor3x3[I1, I2, I3, O1, O2, O3]{NodeRuntime: newNodeRuntime(name, opts...), fn: fn}
	p.OutputChannel1 = make(chan O1, p.outputCap(0))
	p.OutputChannel2 = make(chan O2, p.outputCap(1))
	p.OutputChannel3 = make(chan O3, p.outputCap(2))
	return p
}

func (p *Processor3x3[I1, I2, I3, O1, O2, O3]) Start(ctx context.Context) error {
	if p.InputChannel1 == nil || p.InputChannel2 == nil || p.InputChannel3 == nil {
		return ErrInputNotWired
	}
	p.Stop()
	p.refreshChannels(func() {
		p.OutputChannel1 = make(chan O1, p.outputCap(0))
		p.OutputChannel2 = make(chan O2, p.outputCap(1))
		p.OutputChannel3 = make(chan O3, p.outputCap(2))
	})
	in1, in2, in3 := p.InputChannel1, p.InputChannel2, p.InputChannel3
	out1, out2, out3 := p.OutputChannel1, p.OutputChannel2, p.OutputChannel3
	p.begin(ctx, func(ctx context.Context) error {
		a, err := recv(ctx, p.NodeRuntime, in1)
		if err != nil {
			return err
		}
		b, err := recv(ctx, p.NodeRuntime, in2)
		if err != nil {
			return err
		}
		c, err := recv(ctx, p.NodeRuntime, in3)
		if err != nil {
			return err
		}
		res, err := p.fn(ctx, a, b, c)
		if err != nil {
			return err
		}
		return emit3(ctx, out1, out2, out3, res)
	}, func() { close(out1); close(out2); close(out3) })
	return nil
}

// Compile-time checks that every variant satisfies Runner.
var (
	_ Runner = (*Generator[any])(nil)
	_ Runner = (*Generator2[any, any])(nil)
	_ Runner = (*Generator3[any, any, any])(nil)
	_ Runner = (*Sink[any])(nil)
	_ Runner = (*Sink2[any, any])(nil)
	_ Runner = (*Sink3[any, any, any])(nil)
	_ Runner = (*Processor1x1[any, any])(nil)
	_ Runner = (*Processor1x2[any, any, any])(nil)
	_ Runner = (*Processor1x3[any, any, any, any])(nil)
	_ Runner = (*Processor2x1[any, any, any])(nil)
	_ Runner = (*Processor2x2[any, any, any, any])(nil)
	_ Runner = (*Processor2x3[any, any, any, any, any])(nil)
	_ Runner = (*Processor3x1[any, any, any, any])(nil)
	_ Runner = (*Processor3x2[any, any, any, any, any])(nil)
	_ Runner = (*Processor3x3[any, any, any, any, any, any])(nil)
)
