package cancel

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "aozorascraper/pkg/errors"
)

func TestController(t *testing.T) {
	c := New()
	assert.False(t, c.IsCancelled())
	assert.NoError(t, c.Check())

	c.RequestCancel()
	assert.True(t, c.IsCancelled())
	assert.True(t, errors.Is(c.Check(), errs.ErrCancelled))

	c.Reset()
	assert.False(t, c.IsCancelled())
	assert.NoError(t, c.Check())
}

func TestZeroValue(t *testing.T) {
	var c Controller
	assert.False(t, c.IsCancelled())
}

func TestConcurrentRequest(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RequestCancel()
			_ = c.IsCancelled()
		}()
	}
	wg.Wait()
	assert.True(t, c.IsCancelled())
}
