package xmetrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

type nilObserver struct{}

func (nilObserver) Start(context.Context, SpanOptions) (context.Context, Span) {
	return nil, nil
}

func TestStart_NilObserver(t *testing.T) {
	//nolint:staticcheck // 验证 nil ctx 兜底
	ctx, span := Start(nil, nil, SpanOptions{})
	require.NotNil(t, ctx)
	assert.IsType(t, NoopSpan{}, span)
}

func TestStart_ObserverReturnsNil(t *testing.T) {
	parent := context.WithValue(context.Background(), ctxKey{}, "v")
	ctx, span := Start(parent, nilObserver{}, SpanOptions{Operation: OperationAnalyze})
	assert.Equal(t, parent, ctx)
	assert.IsType(t, NoopSpan{}, span)
}

func TestNoopObserver(t *testing.T) {
	//nolint:staticcheck
	ctx, span := NoopObserver{}.Start(nil, SpanOptions{})
	require.NotNil(t, ctx)
	span.End(Outcome{Err: errors.New("ignored")})
}

func TestOutcome_Valid(t *testing.T) {
	assert.True(t, Outcome{Class: "A"}.Valid())
	assert.False(t, Outcome{Err: errors.New("bad")}.Valid())
}
