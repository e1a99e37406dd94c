package boson

import (
	"context"
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/ajroetker/bosesim/boson/contrib/workerpool"
)

// InitStd returns the standard computational-basis ground state |0...0>:
// amplitude 1 at state index 0, zero everywhere else.
func InitStd[T Complex](layout Layout) []T {
	v := make([]T, layout.Size())
	v[0] = T(complex(1, 0))
	return v
}

func zero[T Complex](v []T) {
	for i := range v {
		v[i] = 0
	}
}

// Simulation drives a fixed Hamiltonian through uniform time steps of
// exp(-i*dt*H), reusing three length-D buffers across the whole run. It
// owns no worker pool of its own: the caller creates one (the bosesim
// command sizes it to runtime.NumCPU()+1) and is responsible for closing it once every
// Simulation sharing it is done.
type Simulation[T Complex] struct {
	Layout      Layout
	Hamiltonian []HamiltonianTerm
	TimeStep    float64

	pool             *workerpool.Pool
	state, aux, exp  []T
}

// NewSimulation builds a Simulation initialized to the standard ground
// state. pool may be nil, in which case every kernel call runs
// sequentially on the calling goroutine.
func NewSimulation[T Complex](layout Layout, hamiltonian []HamiltonianTerm, timeStep float64, pool *workerpool.Pool) *Simulation[T] {
	size := layout.Size()
	return &Simulation[T]{
		Layout:      layout,
		Hamiltonian: hamiltonian,
		TimeStep:    timeStep,
		pool:        pool,
		state:       InitStd[T](layout),
		aux:         make([]T, size),
		exp:         make([]T, size),
	}
}

// State returns the simulation's current state vector. The returned slice
// aliases internal storage and must not be retained across a call to Step
// or Run.
func (s *Simulation[T]) State() []T {
	return s.state
}

// applyH is the Chebyshev propagator's operator argument: it computes
// dst += coeff * (-i*dt*H) * src by summing ApplyTerm over every
// Hamiltonian term, each scaled by its amplitude, -i, the time step, and
// the caller-supplied coeff. The -i matches exp(-i*dt*H), the physical
// convention the driver's time-evolution test invariants are stated
// against.
func (s *Simulation[T]) applyH(dst, src []T, coeff T) {
	negI := T(complex(0, -1))
	for _, ht := range s.Hamiltonian {
		alpha := coeff * negI * T(complex(ht.Amplitude*s.TimeStep, 0))
		ApplyTerm(s.pool, dst, src, s.Layout, ht.Term, alpha)
	}
}

// Step advances the state by one time step using a Chebyshev expansion of
// exp(-i*dt*H) truncated at order.
func (s *Simulation[T]) Step(order int) {
	ChebExp[T](s.exp, s.state, s.aux, s.applyH, order)
	s.exp, s.state = s.state, s.exp
	zero(s.exp)
	zero(s.aux)
}

// Run advances the state through steps uniform time steps, recording the
// reduced density matrix of every subset in subsets before the first step
// and after each subsequent one. tol is the trace-deviation tolerance: a
// subset's density matrix trace deviating from 1 by more than tol is
// logged at error level and the run continues; it is never fatal. progress,
// if non-nil, is called once per completed step for progress reporting.
//
// Run returns early with the partial results and ctx.Err() if ctx is
// cancelled between steps.
func (s *Simulation[T]) Run(ctx context.Context, steps, order int, tol float64, subsets [][]int, progress func(step int)) ([][][]T, error) {
	results := make([][][]T, len(subsets))
	for i, sub := range subsets {
		results[i] = make([][]T, 0, steps+1)
		results[i] = append(results[i], Density(s.pool, s.state, s.Layout, sub))
	}

	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		s.Step(order)

		for i, sub := range subsets {
			dens := Density(s.pool, s.state, s.Layout, sub)
			dim := int(math.Sqrt(float64(len(dens))))
			trace := Trace(dens, dim)
			if cmplx.Abs(complex128(trace)-1) > tol {
				slog.Error("density matrix trace deviates from 1",
					"subset", sub, "step", step+1, "trace", trace)
			}
			results[i] = append(results[i], dens)
		}
		if progress != nil {
			progress(step + 1)
		}
	}
	return results, nil
}
