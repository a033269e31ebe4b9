package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/storage"
)

const (
	profileKey   = constants.AppName + ":profile"
	keySetKey    = constants.AppName + ":waypoint_keys"
	waypointsKey = constants.AppName + ":waypoints:"

	defaultTimeout = 5 * time.Second
)

var ErrEmbeddedCredentials = errors.New("redis URL must not contain a password")

type Store struct {
	opts    *goredis.Options
	rdb     *goredis.Client
	timeout time.Duration
}

func New(opts *goredis.Options) *Store {
	return &Store{
		opts:    opts,
		timeout: defaultTimeout,
	}
}

// NewFromURL parses a redis:// URL. The password, if any, must be supplied
// separately so it never ends up in config files or shell history.
func NewFromURL(rawURL, password string) (*Store, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if opts.Password != "" {
		return nil, ErrEmbeddedCredentials
	}
	opts.Password = password
	return New(opts), nil
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) connect() error {
	if s.rdb != nil {
		return nil
	}
	s.rdb = goredis.NewClient(s.opts)
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.rdb.Close()
		s.rdb = nil
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	profile, err := s.GetProfile()
	if err != nil || profile.StartTime == "" {
		models.ApplyDefaultProfile(&profile)
		if err := s.SaveProfile(profile); err != nil {
			return fmt.Errorf("failed to save default profile: %w", err)
		}
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}
	ctx, cancel := s.ctx()
	defer cancel()
	n, err := s.rdb.Exists(ctx, profileKey).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("storage not initialized, run 'trailpace init' first")
	}
	return nil
}

func (s *Store) Close() error {
	if s.rdb != nil {
		err := s.rdb.Close()
		s.rdb = nil
		return err
	}
	return nil
}

func (s *Store) GetProfile() (models.RunnerProfile, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := s.rdb.HGetAll(ctx, profileKey).Result()
	if err != nil {
		return models.RunnerProfile{}, err
	}
	if len(data) == 0 {
		return models.RunnerProfile{}, fmt.Errorf("settings not found")
	}
	return models.MapToProfile(data)
}

func (s *Store) SaveProfile(profile models.RunnerProfile) error {
	ctx, cancel := s.ctx()
	defer cancel()

	values := models.ProfileToMap(profile)
	fields := make([]any, 0, len(values)*2)
	for k, v := range values {
		fields = append(fields, k, v)
	}
	return s.rdb.HSet(ctx, profileKey, fields...).Err()
}

func (s *Store) GetManualWaypoints(key string) ([]models.ManualWaypointSpec, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	raw, err := s.rdb.Get(ctx, waypointsKey+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	specs := []models.ManualWaypointSpec{}
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode manual waypoints for %s: %w", key, err)
	}
	return specs, nil
}

func (s *Store) SaveManualWaypoints(key string, specs []models.ManualWaypointSpec) error {
	if specs == nil {
		specs = []models.ManualWaypointSpec{}
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("failed to encode manual waypoints: %w", err)
	}

	ctx, cancel := s.ctx()
	defer cancel()
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, waypointsKey+key, raw, 0)
		pipe.SAdd(ctx, keySetKey, key)
		return nil
	})
	return err
}

func (s *Store) DeleteManualWaypoints(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	var del *goredis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, waypointsKey+key)
		pipe.SRem(ctx, keySetKey, key)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListKeys() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	keys, err := s.rdb.SMembers(ctx, keySetKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return "redis://" + s.opts.Addr
}
