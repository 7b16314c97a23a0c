package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/mailtext/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("9f86d081884c7d65"))

	f.Add("9f86d081884c7d65")

	assert.True(t, f.Test("9f86d081884c7d65"))
	assert.False(t, f.Test("60303ae22b998861"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	for i := 0; i < 3; i++ {
		f.Add(fmt.Sprintf("hash-%d", i))
	}

	count := f.EstimatedCount()
	assert.GreaterOrEqual(t, count, uint(2))
	assert.LessOrEqual(t, count, uint(4))
}

func TestFilter_ConcurrentUse(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("hash-%d", i)
			f.Add(key)
			assert.True(t, f.Test(key))
		}(i)
	}
	wg.Wait()
}
