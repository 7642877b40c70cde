package contextkey

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// AsyncAnswer is the outcome of one query dispatched concurrently.
type AsyncAnswer struct {
	Text  string
	Error error
}

// All dispatches every query concurrently and waits for all of them.
// Answers line up with the queries by index. Calls are independent:
// no ordering holds between them, only within each stream.
func All(ctx context.Context, ck *Adapter, queries ...Query) []AsyncAnswer {
	var wg sync.WaitGroup

	answers := make([]AsyncAnswer, len(queries))

	for idx, query := range queries {
		idx, query := idx, query

		wg.Add(1)

		go func() {
			defer wg.Done()

			text, err := query.Do(ctx, ck)

			answers[idx] = AsyncAnswer{Text: text, Error: err}
		}()
	}

	wg.Wait()

	return answers
}

// Race dispatches every query concurrently and returns the first
// answer, cancelling the rest. If all fail, the combined failure is
// returned.
func Race(ctx context.Context, ck *Adapter, queries ...Query) AsyncAnswer {
	if len(queries) == 0 {
		return AsyncAnswer{Error: errors.New("no queries to race")}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan AsyncAnswer, len(queries))

	for _, query := range queries {
		query := query

		go func() {
			text, err := query.Do(ctx, ck)

			c <- AsyncAnswer{Text: text, Error: err}
		}()
	}

	errored := 0

	for {
		select {
		case <-ctx.Done():
			return AsyncAnswer{Error: ctx.Err()}

		case answer := <-c:
			if answer.Error == nil {
				return answer
			}

			errored += 1

			if errored == len(queries) {
				return AsyncAnswer{Error: errors.New("all queries failed")}
			}
		}
	}
}
