package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"SanguoRich/internal/game/infra/persistence/model"
	"SanguoRich/internal/game/turn"
)

const defaultCollectionName = "sanguo_game"

var errNilCollection = errors.New("mongodb game collection is nil")

type GameRepository struct {
	coll *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *GameRepository) LoadGame(ctx context.Context, gameID string) (*turn.GameSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, errNilCollection
	}

	var doc model.GameDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": gameID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s, err := model.GameDocToSnapshot(doc)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 以 version 做乐观过滤：库里已有更高版本时不覆盖。
func (r *GameRepository) Save(ctx context.Context, s *turn.GameSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errNilCollection
	}

	doc := model.GameSnapshotToDoc(*s)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.GameID, "version": bson.M{"$lt": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	// 过滤条件未命中且 _id 已存在时 upsert 会撞主键，说明库里版本更新，忽略即可。
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
