package game

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRecentTTL = 24 * time.Hour

// RecentSubjects remembers which members a team was recently quizzed
// about, so follow-up single questions rotate through the roster instead
// of repeating subjects. Backed by a TTL-bounded Redis set per team; a nil
// client degrades to a no-op.
type RecentSubjects struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecentSubjects(client *redis.Client, ttl time.Duration) *RecentSubjects {
	if ttl <= 0 {
		ttl = defaultRecentTTL
	}
	return &RecentSubjects{client: client, ttl: ttl}
}

func (r *RecentSubjects) key(teamID string) string {
	return "game:recent-subjects:" + teamID
}

// List returns the recently used subject ids for a team.
func (r *RecentSubjects) List(ctx context.Context, teamID string) ([]string, error) {
	if r == nil || r.client == nil || teamID == "" {
		return nil, nil
	}
	ids, err := r.client.SMembers(ctx, r.key(teamID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// Add records subject ids for a team and refreshes the set's TTL.
func (r *RecentSubjects) Add(ctx context.Context, teamID string, subjectIDs ...string) error {
	if r == nil || r.client == nil || teamID == "" || len(subjectIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(subjectIDs))
	for i, id := range subjectIDs {
		members[i] = id
	}
	key := r.key(teamID)
	if err := r.client.SAdd(ctx, key, members...).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, r.ttl).Err()
}
