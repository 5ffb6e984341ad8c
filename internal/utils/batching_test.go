package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBufferAddAndClear(t *testing.T) {
	buf := NewBatchBuffer[int]()

	buf.Add(1)
	buf.Add(2)
	assert.Equal(t, 2, buf.Size())

	batch := buf.GetAndClear()
	assert.Equal(t, []int{1, 2}, batch)
	assert.Equal(t, 0, buf.Size())
	assert.Nil(t, buf.GetAndClear())
}

func TestBatchBufferConcurrentAdds(t *testing.T) {
	buf := NewBatchBuffer[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			buf.Add(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, buf.Size())
}
