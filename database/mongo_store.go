package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	productsCollection = "products"
	volumesCollection  = "volumes"
	bannersCollection  = "banners"
	reviewsCollection  = "reviews"
	settingsCollection = "settings"
	adminsCollection   = "admin_users"
	sessionsCollection = "admin_sessions"
)

// MongoStore keeps volumes in their own collection keyed by product_id.
// With transactions enabled (replica set or Atlas) product writes run in a
// session transaction; otherwise a failed second write is compensated and
// ErrPartialWrite reported when the compensation fails too.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

func NewMongoStore(client *mongo.Client, databaseName string, transactions bool) *MongoStore {
	return &MongoStore{
		client:       client,
		db:           client.Database(databaseName),
		transactions: transactions,
	}
}

func (s *MongoStore) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		volumesCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "position", Value: 1}}},
		},
		bannersCollection: {
			{Keys: bson.D{{Key: "sort_order", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "product_slug", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		adminsCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		sessionsCollection: {
			{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for name, idx := range indexes {
		if _, err := s.col(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

func (s *MongoStore) volumesFor(ctx context.Context, productIDs ...string) (map[string][]volumeRow, error) {
	out := make(map[string][]volumeRow, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := s.col(volumesCollection).Find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}}, opts)
	if err != nil {
		return nil, err
	}
	var rows []volumeRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, v := range rows {
		out[v.ProductID] = append(out[v.ProductID], v)
	}
	return out, nil
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.col(productsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []productRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	vols, err := s.volumesFor(ctx, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromProductRow(r, vols[r.ID]))
	}
	return out, nil
}

func (s *MongoStore) findProduct(ctx context.Context, filter bson.M) (*models.Product, error) {
	var row productRow
	if err := s.col(productsCollection).FindOne(ctx, filter).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	vols, err := s.volumesFor(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	p := fromProductRow(row, vols[row.ID])
	return &p, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.findProduct(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findProduct(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) insertVolumes(ctx context.Context, rows []volumeRow) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.col(volumesCollection).InsertMany(ctx, rows)
	return err
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product) error {
	prepareProduct(p, time.Now().UTC())
	row := toProductRow(p)
	vols := toVolumeRows(p)

	if s.transactions {
		return translate(s.inTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.col(productsCollection).InsertOne(ctx, row); err != nil {
				return err
			}
			return s.insertVolumes(ctx, vols)
		}))
	}

	if _, err := s.col(productsCollection).InsertOne(ctx, row); err != nil {
		return translate(err)
	}
	if err := s.insertVolumes(ctx, vols); err != nil {
		if _, rbErr := s.col(productsCollection).DeleteOne(ctx, bson.M{"_id": row.ID}); rbErr != nil {
			log.Printf("rollback of product %s failed: %v", row.ID, rbErr)
			return fmt.Errorf("%w: insert volumes: %v", ErrPartialWrite, err)
		}
		return fmt.Errorf("insert volumes: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p *models.Product, replaceVolumes bool) error {
	prev, err := s.GetProduct(ctx, p.Id)
	if err != nil {
		return err
	}
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if replaceVolumes {
		prepareVolumes(p)
	} else {
		p.Volumes = prev.Volumes
	}
	row := toProductRow(p)
	vols := toVolumeRows(p)

	write := func(ctx context.Context) error {
		res, err := s.col(productsCollection).ReplaceOne(ctx, bson.M{"_id": row.ID}, row)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		if !replaceVolumes {
			return nil
		}
		if _, err := s.col(volumesCollection).DeleteMany(ctx, bson.M{"product_id": row.ID}); err != nil {
			return err
		}
		return s.insertVolumes(ctx, vols)
	}

	if s.transactions {
		return translate(s.inTransaction(ctx, write))
	}

	if err := write(ctx); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(translate(err), ErrDuplicateKey) {
			return translate(err)
		}
		if rbErr := s.restoreProduct(ctx, prev); rbErr != nil {
			log.Printf("restore of product %s failed: %v", prev.Id, rbErr)
			return fmt.Errorf("%w: %v", ErrPartialWrite, err)
		}
		return err
	}
	return nil
}

// restoreProduct puts back a snapshot taken before a failed update.
func (s *MongoStore) restoreProduct(ctx context.Context, prev *models.Product) error {
	if _, err := s.col(productsCollection).ReplaceOne(ctx, bson.M{"_id": prev.Id}, toProductRow(prev)); err != nil {
		return err
	}
	if _, err := s.col(volumesCollection).DeleteMany(ctx, bson.M{"product_id": prev.Id}); err != nil {
		return err
	}
	return s.insertVolumes(ctx, toVolumeRows(prev))
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	remove := func(ctx context.Context) error {
		res, err := s.col(productsCollection).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		_, err = s.col(volumesCollection).DeleteMany(ctx, bson.M{"product_id": id})
		if err != nil && !s.transactions {
			return fmt.Errorf("%w: delete volumes: %v", ErrPartialWrite, err)
		}
		return err
	}

	if s.transactions {
		return s.inTransaction(ctx, remove)
	}
	return remove(ctx)
}

func (s *MongoStore) ListVolumes(ctx context.Context, productID string) ([]models.VolumeOption, error) {
	vols, err := s.volumesFor(ctx, productID)
	if err != nil {
		return nil, err
	}
	return fromVolumeRows(vols[productID]), nil
}

func (s *MongoStore) ListBanners(ctx context.Context) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "created_at", Value: -1}})
	cursor, err := s.col(bannersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []bannerRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Banner, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromBannerRow(r))
	}
	return out, nil
}

func (s *MongoStore) GetBanner(ctx context.Context, id string) (*models.Banner, error) {
	var row bannerRow
	if err := s.col(bannersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b := fromBannerRow(row)
	return &b, nil
}

func (s *MongoStore) CreateBanner(ctx context.Context, b *models.Banner) error {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	_, err := s.col(bannersCollection).InsertOne(ctx, toBannerRow(b))
	return translate(err)
}

func (s *MongoStore) UpdateBanner(ctx context.Context, b *models.Banner) error {
	prev, err := s.GetBanner(ctx, b.Id)
	if err != nil {
		return err
	}
	b.CreatedAt = prev.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	res, err := s.col(bannersCollection).ReplaceOne(ctx, bson.M{"_id": b.Id}, toBannerRow(b))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteBanner(ctx context.Context, id string) error {
	res, err := s.col(bannersCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListReviews(ctx context.Context, productSlug string) ([]models.Review, error) {
	filter := bson.M{}
	if productSlug != "" {
		filter["product_slug"] = productSlug
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col(reviewsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var rows []reviewRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromReviewRow(r))
	}
	return out, nil
}

func (s *MongoStore) CreateReview(ctx context.Context, r *models.Review) error {
	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	_, err := s.col(reviewsCollection).InsertOne(ctx, toReviewRow(r))
	return translate(err)
}

func (s *MongoStore) DeleteReview(ctx context.Context, id string) error {
	res, err := s.col(reviewsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var row settingRow
	if err := s.col(settingsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	st := fromSettingRow(row)
	return &st, nil
}

func (s *MongoStore) ListSettings(ctx context.Context) ([]models.Setting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.col(settingsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []settingRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Setting, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromSettingRow(r))
	}
	return out, nil
}

func (s *MongoStore) UpsertSetting(ctx context.Context, st *models.Setting) error {
	st.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{"value": st.Value, "updated_at": st.UpdatedAt}}
	_, err := s.col(settingsCollection).UpdateOne(ctx, bson.M{"_id": st.Key}, update, options.UpdateOne().SetUpsert(true))
	return err
}

// SeedAdmin only inserts when the username is absent, so a password changed
// through the environment never overwrites an existing hash.
func (s *MongoStore) SeedAdmin(ctx context.Context, u *models.AdminUser) (bool, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := toAdminUserRow(u)
	filter := bson.M{"username": row.Username}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":           row.ID,
			"username":      row.Username,
			"password_hash": row.PasswordHash,
			"is_active":     row.IsActive,
			"created_at":    row.CreatedAt,
			"updated_at":    row.UpdatedAt,
		},
	}
	res, err := s.col(adminsCollection).UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("seed admin upsert failed: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

func (s *MongoStore) FindAdmin(ctx context.Context, username string) (*models.AdminUser, error) {
	var row adminUserRow
	if err := s.col(adminsCollection).FindOne(ctx, bson.M{"username": username}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u := fromAdminUserRow(row)
	return &u, nil
}

func (s *MongoStore) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	res, err := s.col(adminsCollection).UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateSession(ctx context.Context, sess *models.AdminSession) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	_, err := s.col(sessionsCollection).InsertOne(ctx, toSessionRow(sess))
	return err
}

func (s *MongoStore) GetSession(ctx context.Context, id string) (*models.AdminSession, error) {
	var row sessionRow
	if err := s.col(sessionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sess := fromSessionRow(row)
	return &sess, nil
}

func (s *MongoStore) RevokeSession(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := s.col(sessionsCollection).UpdateOne(ctx,
		bson.M{"_id": id, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revoked_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MongoStore) RevokeUserSessions(ctx context.Context, username string) error {
	_, err := s.col(sessionsCollection).UpdateMany(ctx,
		bson.M{"username": username, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}},
	)
	return err
}
