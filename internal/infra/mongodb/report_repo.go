package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/modules/kit/errx"
)

const defaultCollectionName = "battle_report"

// ReportRepository 战报只进不改，按玩家可见性查询。
type ReportRepository struct {
	coll *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *ReportRepository) SaveBattleReport(ctx context.Context, report *app.BattleReport) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb report collection is nil")
	}
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": report.ID},
		report,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithData("report_id", report.ID).WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id int64) (*app.BattleReport, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb report collection is nil")
	}
	var report app.BattleReport
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == nil {
		return &report, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	return nil, errx.ErrUnavailable.WithData("report_id", id).WithCause(err)
}

// ListByPlayer 按创建时间倒序返回该玩家可见的战报。
func (r *ReportRepository) ListByPlayer(ctx context.Context, playerID int64, limit int64) ([]*app.BattleReport, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb report collection is nil")
	}
	if limit <= 0 {
		limit = 50
	}
	cur, err := r.coll.Find(
		ctx,
		bson.M{"audiences": playerID},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit),
	)
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("player_id", playerID).WithCause(err)
	}
	defer cur.Close(ctx)

	var reports []*app.BattleReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, errx.ErrUnavailable.WithData("player_id", playerID).WithCause(err)
	}
	return reports, nil
}
