package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ToolKeyPrefix    = "tool:%d"
	ToolCatalogKey   = "tools:catalog"
	PolicyKeyPrefix  = "policy:%d"
	PolicyListKey    = "policies:all"
	VulnSearchPrefix = "vuln:%s"
	AdminStatsKey    = "stats:admin"
	UserStatsPrefix  = "stats:user:%d"
)

const (
	UserTTL       = 5 * time.Minute
	ToolTTL       = 10 * time.Minute
	CatalogTTL    = 10 * time.Minute
	PolicyTTL     = 30 * time.Minute
	VulnSearchTTL = 1 * time.Hour
	StatsTTL      = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ToolKey(toolID uint) string {
	return fmt.Sprintf(ToolKeyPrefix, toolID)
}

func PolicyKey(policyID uint) string {
	return fmt.Sprintf(PolicyKeyPrefix, policyID)
}

func VulnSearchKey(term string) string {
	return fmt.Sprintf(VulnSearchPrefix, term)
}

func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserStatsKey(userID))
}

func InvalidateTool(ctx context.Context, toolID uint) {
	Invalidate(ctx, ToolKey(toolID))
	Invalidate(ctx, ToolCatalogKey)
}

func InvalidatePolicy(ctx context.Context, policyID uint) {
	Invalidate(ctx, PolicyKey(policyID))
	Invalidate(ctx, PolicyListKey)
}

func InvalidateStats(ctx context.Context) {
	Invalidate(ctx, AdminStatsKey)
}
