package xcontext

import "context"

type athleteIDKey struct{}

func SetAthleteID(ctx context.Context, athleteID int64) context.Context {
	return context.WithValue(ctx, athleteIDKey{}, athleteID)
}

func GetAthleteID(ctx context.Context) (int64, bool) {
	athleteID, ok := ctx.Value(athleteIDKey{}).(int64)
	return athleteID, ok
}
