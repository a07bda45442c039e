package dsp

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

// MaxFFTPlan is the number of distinct transform sizes the plan cache holds.
// More than this many sizes in one process is a configuration bug.
const MaxFFTPlan = 32

// ErrPlanCacheFull is returned when a transform size cannot be planned
// because all cache slots are taken. Existing sizes keep working.
var ErrPlanCacheFull = errors.New("fft plan cache full")

// planSlot pairs a transform size with a pool of ready transforms. The
// fourier.CmplxFFT keeps internal scratch, so concurrent executions each
// take their own instance; the pooled twiddle tables are what the slot
// caches.
type planSlot struct {
	n    int
	pool *sync.Pool
}

// acquirePlan returns a transform for size n, installing a new cache slot
// if needed. The caller must Put the transform back into the returned pool
// when done.
func (e *Engine) acquirePlan(n int) (*fourier.CmplxFFT, *sync.Pool, error) {
	e.mu.Lock()
	var pool *sync.Pool
	for i := range e.plans {
		if e.plans[i].n == n {
			pool = e.plans[i].pool
			break
		}
	}
	if pool == nil {
		if len(e.plans) >= MaxFFTPlan {
			e.mu.Unlock()
			e.log.Error("fft plan cache full", "n", n, "max", MaxFFTPlan)
			return nil, nil, errors.Wrapf(ErrPlanCacheFull, "size %d", n)
		}
		pool = &sync.Pool{New: func() any { return fourier.NewCmplxFFT(n) }}
		e.plans = append(e.plans, planSlot{n: n, pool: pool})
	}
	e.mu.Unlock()

	return pool.Get().(*fourier.CmplxFFT), pool, nil
}

// PlanSizes reports the transform sizes currently cached, in insertion
// order.
func (e *Engine) PlanSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	sizes := make([]int, len(e.plans))
	for i := range e.plans {
		sizes[i] = e.plans[i].n
	}
	return sizes
}

// ImportWisdom pre-plans every transform size listed in the file, one
// decimal size per line.
func (e *Engine) ImportWisdom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read wisdom")
	}
	for _, field := range strings.Fields(string(data)) {
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return errors.Errorf("wisdom %s: bad size %q", path, field)
		}
		ft, pool, err := e.acquirePlan(n)
		if err != nil {
			return err
		}
		pool.Put(ft)
	}
	return nil
}

// GenWisdom plans size n and merges it into the size list at path, so
// later runs can pre-plan it at startup.
func (e *Engine) GenWisdom(path string, n int) error {
	if n <= 0 {
		return errors.Errorf("invalid transform size %d", n)
	}
	ft, pool, err := e.acquirePlan(n)
	if err != nil {
		return err
	}
	pool.Put(ft)

	sizes := map[int]bool{n: true}
	if data, err := os.ReadFile(path); err == nil {
		for _, field := range strings.Fields(string(data)) {
			if v, err := strconv.Atoi(field); err == nil && v > 0 {
				sizes[v] = true
			}
		}
	}
	list := make([]int, 0, len(sizes))
	for v := range sizes {
		list = append(list, v)
	}
	sort.Ints(list)

	var b strings.Builder
	for _, v := range list {
		fmt.Fprintln(&b, v)
	}
	return errors.Wrap(os.WriteFile(path, []byte(b.String()), 0o644), "write wisdom")
}
