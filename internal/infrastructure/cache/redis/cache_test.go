package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AutoCompare-Intelligence/internal/testutil"
	pkgerrors "github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache     Cache
	log       *testutil.MockLogger
	collector prom.MetricsCollector
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.log = testutil.NewMockLogger()
	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{Namespace: "cache"}, nil)
	s.Require().NoError(err)
	s.collector = collector
	s.cache = NewRedisCache(NewClientFromUniversal(db, s.log), s.log,
		WithPrefix("test:"), WithTTLJitter(0), WithMetrics(prom.NewAppMetrics(collector), "report"))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

type cachedReport struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := cachedReport{ID: "r1", Total: 25000}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k1").SetVal(string(data))

	var dest cachedReport
	s.Require().NoError(s.cache.Get(context.Background(), "k1", &dest))
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k1").RedisNil()

	var dest cachedReport
	err := s.cache.Get(context.Background(), "k1", &dest)
	s.ErrorIs(err, ErrCacheMiss)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheTestSuite) TestGet_Unavailable() {
	s.mock.ExpectGet("test:k1").SetErr(errors.New("connection refused"))

	var dest cachedReport
	err := s.cache.Get(context.Background(), "k1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeReportCacheUnavailable))
}

func (s *CacheTestSuite) TestGet_CorruptPayload() {
	s.mock.ExpectGet("test:k1").SetVal("{not json")

	var dest cachedReport
	err := s.cache.Get(context.Background(), "k1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_DefaultTTL() {
	val := cachedReport{ID: "r2"}
	data, _ := json.Marshal(val)
	s.mock.ExpectSet("test:k2", string(data), 15*time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k2", val, 0))
}

func (s *CacheTestSuite) TestSet_Error() {
	data, _ := json.Marshal(cachedReport{ID: "r2"})
	s.mock.ExpectSet("test:k2", string(data), time.Minute).SetErr(errors.New("READONLY"))

	err := s.cache.Set(context.Background(), "k2", cachedReport{ID: "r2"}, time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeReportCacheUnavailable))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "k1", "k2"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSet_Hit() {
	val := cachedReport{ID: "hit", Total: 1}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").SetVal(string(data))

	var calls atomic.Int32
	var dest cachedReport
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		calls.Add(1)
		return cachedReport{}, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
	s.Zero(calls.Load())
}

func (s *CacheTestSuite) TestGetOrSet_MissLoadsAndStores() {
	val := cachedReport{ID: "fresh", Total: 42}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", string(data), time.Minute).SetVal("OK")

	var dest cachedReport
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return &val, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_UnavailableStillLoads() {
	val := cachedReport{ID: "degraded"}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:k").SetErr(errors.New("i/o timeout"))
	s.mock.ExpectSet("test:k", string(data), time.Minute).SetErr(errors.New("i/o timeout"))

	var dest cachedReport
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
	s.Len(s.log.MessagesAt("warn"), 2)

	n, err := promtest.GatherAndCount(s.collector.Gatherer(), "cache_cache_errors_total")
	s.NoError(err)
	s.Equal(2, n, "one series each for get and set")
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	s.mock.ExpectGet("test:k").RedisNil()

	boom := errors.New("boom")
	var dest cachedReport
	err := s.cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	s.ErrorIs(err, boom)
}

func (s *CacheTestSuite) TestJitterTTL() {
	c := &redisCache{jitter: 0.1}
	for i := 0; i < 50; i++ {
		ttl := c.jitterTTL(10 * time.Minute)
		s.GreaterOrEqual(ttl, 9*time.Minute)
		s.LessOrEqual(ttl, 11*time.Minute)
	}
	s.Equal(time.Duration(0), c.jitterTTL(0))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

var _ logging.Logger = (*testutil.MockLogger)(nil)
