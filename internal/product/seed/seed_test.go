package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/abgdnv/productboard/internal/product/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCreator struct {
	mu     sync.Mutex
	calls  int
	failAt string
}

func (r *recordingCreator) Create(_ context.Context, name, price string) (*service.ProductDto, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failAt != "" && name == r.failAt {
		return nil, "", errors.New("rejected")
	}
	return &service.ProductDto{ID: int64(r.calls), Name: name, Price: decimal.RequireFromString(price)}, "Product created successfully.", nil
}

func Test_Generate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	lower := decimal.RequireFromString("10")
	upper := decimal.RequireFromString("1000")

	products := Generate(rng, 200)

	require.Len(t, products, 200)
	for _, p := range products {
		assert.Len(t, strings.Fields(p.Name), 2, p.Name)
		assert.True(t, p.Price.GreaterThanOrEqual(lower), p.Price.String())
		assert.True(t, p.Price.LessThanOrEqual(upper), p.Price.String())
		assert.LessOrEqual(t, -p.Price.Exponent(), int32(2), "at most two decimals")
	}
}

func Test_Generate_Deterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewPCG(7, 7)), DefaultCount)
	b := Generate(rand.New(rand.NewPCG(7, 7)), DefaultCount)

	assert.Equal(t, a, b)
}

func Test_Run(t *testing.T) {
	// given
	creator := &recordingCreator{}

	// when
	created, err := Run(context.Background(), creator, rand.New(rand.NewPCG(3, 4)), DefaultCount)

	// then
	require.NoError(t, err)
	assert.Len(t, created, DefaultCount)
	assert.Equal(t, DefaultCount, creator.calls)
	expected := Generate(rand.New(rand.NewPCG(3, 4)), DefaultCount)
	for i, p := range created {
		assert.Equal(t, expected[i].Name, p.Name)
	}
}

func Test_Run_Failure(t *testing.T) {
	generated := Generate(rand.New(rand.NewPCG(5, 6)), 3)
	creator := &recordingCreator{failAt: generated[1].Name}

	created, err := Run(context.Background(), creator, rand.New(rand.NewPCG(5, 6)), 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), generated[1].Name)
	assert.Nil(t, created)
}
