// Copyright 2026 The rowscan Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowscan/rowscan/tokenizer"
)

func TestPubSub(t *testing.T) {
	t.Run("Broadcast", func(t *testing.T) {
		ps := New()
		q1 := ps.Subscribe(4)
		q2 := ps.Subscribe(4)
		require.Equal(t, 2, ps.Num())

		ps.Publish(tokenizer.Row{})

		_, ok := q1.PopTimeout(time.Second)
		assert.True(t, ok)
		_, ok = q2.PopTimeout(time.Second)
		assert.True(t, ok)
	})

	t.Run("PopTimeout expires", func(t *testing.T) {
		ps := New()
		q := ps.Subscribe(1)

		start := time.Now()
		_, ok := q.PopTimeout(20 * time.Millisecond)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("Full queue drops", func(t *testing.T) {
		ps := New()
		q := ps.Subscribe(2)

		for i := 0; i < 10; i++ {
			ps.Publish(tokenizer.Row{})
		}

		var got int
		for {
			if _, ok := q.PopTimeout(10 * time.Millisecond); !ok {
				break
			}
			got++
		}
		assert.Equal(t, 2, got)
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		ps := New()
		q := ps.Subscribe(1)
		ps.Unsubscribe(q)
		assert.Equal(t, 0, ps.Num())

		// publishes after detach must not reach the queue
		ps.Publish(tokenizer.Row{})
		_, ok := q.PopTimeout(10 * time.Millisecond)
		assert.False(t, ok)
	})

	t.Run("Close is idempotent", func(t *testing.T) {
		ps := New()
		q := ps.Subscribe(1)
		q.Close()
		q.Close()

		_, ok := q.PopTimeout(time.Millisecond)
		assert.False(t, ok)
	})

	t.Run("Unique IDs", func(t *testing.T) {
		ps := New()
		q1 := ps.Subscribe(1)
		q2 := ps.Subscribe(1)
		assert.NotEqual(t, q1.ID(), q2.ID())
	})
}
