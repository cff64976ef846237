package bulk

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type kind uint8

const (
	kindDel kind = iota
	kindSet
	kindHSet
)

// Command is one key mutation queued for pipelined execution. Commands are
// built by the drivers and applied positionally: the reply at index i
// belongs to the command queued at index i.
type Command struct {
	key    string
	op     kind
	value  string
	fields map[string]string
}

// Del builds a deletion of one key.
func Del(key string) Command {
	return Command{key: key, op: kindDel}
}

// Set builds an unconditional string write. Existing values are overwritten.
func Set(key, value string) Command {
	return Command{key: key, op: kindSet, value: value}
}

// HSet builds a multi-field hash write. Fields absent from the map are left
// untouched on the target hash: this is a merge, not a replace.
func HSet(key string, fields map[string]string) Command {
	return Command{key: key, op: kindHSet, fields: fields}
}

// Key returns the key this command mutates.
func (c Command) Key() string { return c.key }

// apply queues the command on a pipeline and returns the pending reply.
func (c Command) apply(ctx context.Context, pipe redis.Pipeliner) redis.Cmder {
	switch c.op {
	case kindDel:
		return pipe.Del(ctx, c.key)
	case kindSet:
		return pipe.Set(ctx, c.key, c.value, 0)
	default:
		return pipe.HSet(ctx, c.key, c.fields)
	}
}
