package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTaskStore keeps each task in a hash and orders them in a sorted set
// scored by insertion time. Equal scores fall back to the time-ordered id.
type RedisTaskStore struct {
	client *redis.Client
	prefix string
}

// ConnectRedis parses url, opens a client and pings it.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisTaskStore creates a store whose keys all start with prefix.
func NewRedisTaskStore(client *redis.Client, prefix string) *RedisTaskStore {
	return &RedisTaskStore{client: client, prefix: prefix}
}

func (s *RedisTaskStore) indexKey() string {
	return s.prefix + "tasks"
}

func (s *RedisTaskStore) taskKey(id string) string {
	return s.prefix + "task:" + id
}

func (s *RedisTaskStore) FindAll(ctx context.Context) ([]*task.Task, error) {
	return s.find(ctx, func(*task.Task) bool { return true })
}

func (s *RedisTaskStore) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return s.find(ctx, func(t *task.Task) bool { return t.Status == status })
}

func (s *RedisTaskStore) find(ctx context.Context, match func(*task.Task) bool) ([]*task.Task, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read task index: %w", err)
	}
	if len(ids) == 0 {
		return []*task.Task{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.taskKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Index entry without a hash; a concurrent delete won the race.
			continue
		}
		t, err := taskFromHash(ids[i], fields)
		if err != nil {
			return nil, err
		}
		if match(t) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *RedisTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	fields, err := s.client.HGetAll(ctx, s.taskKey(id.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if len(fields) == 0 {
		return nil, task.ErrNotFound
	}
	return taskFromHash(id.String(), fields)
}

func (s *RedisTaskStore) Insert(ctx context.Context, t *task.Task) error {
	id := task.NewID()
	key := s.taskKey(id.String())

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "title", t.Title, "status", t.Status)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(time.Now().UnixMilli()),
			Member: id.String(),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	t.ID = id
	return nil
}

func (s *RedisTaskStore) Replace(ctx context.Context, id uuid.UUID, t *task.Task) error {
	key := s.taskKey(id.String())

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return task.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "title", t.Title, "status", t.Status)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to replace task: %w", err)
	}
	return nil
}

func (s *RedisTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.taskKey(id.String()))
		pipe.ZRem(ctx, s.indexKey(), id.String())
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return del.Val() > 0, nil
}

func (s *RedisTaskStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(n), nil
}

func (s *RedisTaskStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}

func taskFromHash(rawID string, fields map[string]string) (*task.Task, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored task id %q: %w", rawID, err)
	}
	return &task.Task{ID: id, Title: fields["title"], Status: fields["status"]}, nil
}

var _ task.Store = (*RedisTaskStore)(nil)
