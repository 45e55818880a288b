package db

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Dashboard responses are cached for an hour. Keys are tracked per user so a
// transaction write can drop every cached month for that user without
// touching anyone else's entries.
const DashboardTTL = time.Hour

var (
	Cache               *ristretto.Cache
	dashboardKeysByUser = struct {
		sync.RWMutex
		m map[int]map[string]struct{}
	}{m: make(map[int]map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func DashboardCacheKey(userID, year, month int) string {
	return fmt.Sprintf("dashboard:%d:%d:%02d", userID, year, month)
}

func GetDashboardCache(userID, year, month int) (interface{}, bool) {
	return Cache.Get(DashboardCacheKey(userID, year, month))
}

func SetDashboardCache(userID, year, month int, value interface{}) {
	key := DashboardCacheKey(userID, year, month)
	dashboardKeysByUser.Lock()
	if dashboardKeysByUser.m[userID] == nil {
		dashboardKeysByUser.m[userID] = make(map[string]struct{})
	}
	dashboardKeysByUser.m[userID][key] = struct{}{}
	dashboardKeysByUser.Unlock()
	Cache.SetWithTTL(key, value, 1, DashboardTTL)
}

// InvalidateDashboardCache drops all cached dashboard months for one user.
// Called from every transaction write path.
func InvalidateDashboardCache(userID int) {
	dashboardKeysByUser.Lock()
	for key := range dashboardKeysByUser.m[userID] {
		Cache.Del(key)
	}
	delete(dashboardKeysByUser.m, userID)
	dashboardKeysByUser.Unlock()
}
