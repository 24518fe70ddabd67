package dtree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
	"github.com/uab-projects/decision-trees/tree"
)

/*
Builder grows classification trees predicting a target feature of the
samples described by a catalog.

A Builder grows one tree at a time: calling Build or BuildMasked while it is
running returns ErrAlreadyRunning. Distinct builders may grow trees
concurrently over the same matrix.
*/
type Builder struct {
	catalog  *feature.Catalog
	target   int
	selector SplitSelector
	stop     StopCriterion
	logger   *slog.Logger
	running  atomic.Bool
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger makes the builder log the chosen splits at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithStop replaces the default PureOrExhausted stop criterion.
func WithStop(s StopCriterion) Option {
	return func(b *Builder) {
		if s != nil {
			b.stop = s
		}
	}
}

/*
NewBuilder takes a catalog, the index of the target feature in it, a
SplitSelector and options and returns a Builder.
*/
func NewBuilder(c *feature.Catalog, target int, selector SplitSelector, opts ...Option) *Builder {
	b := &Builder{
		catalog:  c,
		target:   target,
		selector: selector,
		stop:     PureOrExhausted(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build grows a tree from all the samples in the matrix.
func (b *Builder) Build(ctx context.Context, m *dataset.Matrix) (*tree.Tree, error) {
	return b.BuildMasked(ctx, m, dataset.Full(m.Rows()))
}

/*
BuildMasked grows a tree from the samples of the matrix in the mask. Nodes
of the returned tree are numbered in pre-order.

It returns ErrAlreadyRunning if the builder is already growing a tree,
ErrInvalidTarget if the target is not a discrete feature of the catalog,
ErrSampleMismatch if the matrix does not have a column per feature,
ErrMaskMismatch if the mask does not have an entry per sample and
ErrEmptyTrainingSet if the mask is empty. It also returns the context error
if the context is done before the tree is grown.
*/
func (b *Builder) BuildMasked(ctx context.Context, m *dataset.Matrix, mask dataset.Mask) (*tree.Tree, error) {
	if !b.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer b.running.Store(false)
	if b.target < 0 || b.target >= b.catalog.Len() {
		return nil, fmt.Errorf("target %d out of %d features: %w", b.target, b.catalog.Len(), ErrInvalidTarget)
	}
	if b.catalog.Continuous(b.target) {
		return nil, fmt.Errorf("target %s is continuous: %w", b.catalog.Feature(b.target).Name(), ErrInvalidTarget)
	}
	if m.Cols() != b.catalog.Len() {
		return nil, fmt.Errorf("matrix has %d columns for %d features: %w", m.Cols(), b.catalog.Len(), ErrSampleMismatch)
	}
	if len(mask) != m.Rows() {
		return nil, fmt.Errorf("mask of %d entries for %d samples: %w", len(mask), m.Rows(), ErrMaskMismatch)
	}
	if mask.Count() == 0 {
		return nil, ErrEmptyTrainingSet
	}
	candidates := make([]int, 0, b.catalog.Len()-1)
	for i := 0; i < b.catalog.Len(); i++ {
		if i != b.target {
			candidates = append(candidates, i)
		}
	}
	p := &Problem{Matrix: m, Catalog: b.catalog, Target: b.target}
	root, err := b.grow(ctx, p, mask, candidates, 0)
	if err != nil {
		return nil, err
	}
	t := tree.New(root, b.target, b.selector.Name())
	t.Number()
	return t, nil
}

/*
grow returns the subtree for the samples in the mask. The mask and
candidates are not modified: every child gets a mask of its own derived from
mask and a copy of candidates without the feature branched on.
*/
func (b *Builder) grow(ctx context.Context, p *Problem, mask dataset.Mask, candidates []int, depth int) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts, err := dataset.ClassCounts(p.Matrix, mask, p.Target, b.catalog.DomainSize(p.Target))
	if err != nil {
		return nil, fmt.Errorf("counting classes: %w", err)
	}
	samples := mask.Count()
	if b.stop.Stop(counts, candidates) {
		return tree.NewLeaf(majority(counts), samples), nil
	}
	split, err := b.selector.SelectSplit(p, mask, candidates)
	if err != nil {
		return nil, fmt.Errorf("selecting split: %w", err)
	}
	b.logger.Debug("split selected",
		"depth", depth,
		"feature", b.catalog.Feature(split.Feature).Name(),
		"gain", split.Gain,
		"gain_ratio", split.GainRatio,
		"threshold", split.Threshold,
		"samples", samples)
	rest := make([]int, 0, len(candidates))
	for _, f := range candidates {
		if f != split.Feature {
			rest = append(rest, f)
		}
	}
	branch := split.Branch(samples)
	for _, d := range split.Values {
		child := dataset.Where(p.Matrix, mask, tree.Criterion(branch, d))
		if child.Count() == 0 {
			continue
		}
		st, err := b.grow(ctx, p, child, append([]int(nil), rest...), depth+1)
		if err != nil {
			return nil, err
		}
		branch.Add(d, st)
	}
	if len(branch.Children) == 0 {
		return tree.NewLeaf(majority(counts), samples), nil
	}
	return branch, nil
}

// majority returns the class with most samples, the lowest one on ties.
func majority(counts []int) float64 {
	var result int
	if len(counts) == 0 {
		return 0
	}
	for i, c := range counts {
		if c > counts[result] {
			result = i
		}
	}
	return float64(result)
}
