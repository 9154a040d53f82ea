// Package mongostore is the MongoDB gateway. Chats embed their members, so a
// chat and its roster are read and written as one document.
package mongostore

import (
	"context"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/chatx/db"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	_ db.ChatRepository    = (*MongoStore)(nil)
	_ db.MessageRepository = (*MongoStore)(nil)
	_ db.UserRepository    = (*MongoStore)(nil)
)

// Open connects to url, selects database and makes sure the indexes exist.
func Open(ctx context.Context, url, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}
	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info("Connected to mongo", "database", database)
	return s, nil
}

// NewStore exposes s through the same gateway bundle the SQL store uses.
func NewStore(s *MongoStore) *db.Store {
	return &db.Store{
		Chats:    s,
		Messages: s,
		Users:    s,
		Close:    s.Close,
	}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Tests use it to clean up.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *MongoStore) users() *mongo.Collection    { return s.db.Collection("users") }
func (s *MongoStore) chats() *mongo.Collection    { return s.db.Collection("chats") }
func (s *MongoStore) messages() *mongo.Collection { return s.db.Collection("messages") }

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	collections := map[*mongo.Collection][]mongo.IndexModel{
		s.users(): {
			{Keys: bson.D{{Key: "userName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.chats(): {
			{Keys: bson.D{{Key: "members.userId", Value: 1}, {Key: "isGroupChat", Value: 1}}},
		},
		s.messages(): {
			{Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, indexes := range collections {
		if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll.Name())
		}
	}
	return nil
}

// resolveMembers converts docs and attaches the member user records that exist.
func (s *MongoStore) resolveMembers(ctx context.Context, docs []chatDoc) ([]models.Chat, error) {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, d := range docs {
		for _, m := range d.Members {
			id := parseID(m.UserID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	users, err := s.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	chats := make([]models.Chat, len(docs))
	for i, d := range docs {
		chats[i] = d.model(byID)
	}
	return chats, nil
}

func (s *MongoStore) FindMemberChats(ctx context.Context, userID uuid.UUID, isGroupChat bool) ([]models.Chat, error) {
	cursor, err := s.chats().Find(ctx, bson.M{
		"members.userId": userID.String(),
		"isGroupChat":    isGroupChat,
	})
	if err != nil {
		return nil, errors.Wrap(err, "find member chats")
	}
	var docs []chatDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode member chats")
	}
	return s.resolveMembers(ctx, docs)
}

func (s *MongoStore) FindPrivateChatID(ctx context.Context, userID, otherID uuid.UUID) (*uuid.UUID, error) {
	if userID == otherID {
		return nil, nil
	}
	var doc chatDoc
	err := s.chats().FindOne(ctx, bson.M{
		"isGroupChat":    false,
		"members.userId": bson.M{"$all": bson.A{userID.String(), otherID.String()}},
	}, options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find private chat")
	}
	id := parseID(doc.ID)
	return &id, nil
}

func (s *MongoStore) FindChatIDsByMember(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	cursor, err := s.chats().Find(ctx, bson.M{"members.userId": userID.String()},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "find member chat ids")
	}
	var docs []chatDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode member chat ids")
	}
	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, parseID(d.ID))
	}
	return ids, nil
}

func (s *MongoStore) FindChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	var doc chatDoc
	err := s.chats().FindOne(ctx, bson.M{"_id": chatID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("chat")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find chat")
	}
	chats, err := s.resolveMembers(ctx, []chatDoc{doc})
	if err != nil {
		return nil, err
	}
	return &chats[0], nil
}

func (s *MongoStore) CreateChat(ctx context.Context, chat *models.Chat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	now := time.Now().UTC()
	chat.CreatedAt, chat.UpdatedAt = now, now
	for i := range chat.Members {
		chat.Members[i].ChatID = chat.ID
		chat.Members[i].Position = i
	}
	if _, err := s.chats().InsertOne(ctx, newChatDoc(chat)); err != nil {
		return errors.Wrap(err, "create chat")
	}
	return nil
}

func (s *MongoStore) UpdateChatFields(ctx context.Context, chatID uuid.UUID, fields map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for column, value := range fields {
		key, ok := chatFields[column]
		if !ok {
			return errors.Errorf("unknown chat field %q", column)
		}
		set[key] = value
	}
	res, err := s.chats().UpdateOne(ctx, bson.M{"_id": chatID.String()}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "update chat")
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("chat")
	}
	return nil
}

func (s *MongoStore) ResetUnseen(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	var doc chatDoc
	err := s.chats().FindOneAndUpdate(ctx,
		bson.M{"_id": chatID.String(), "members.userId": userID.String()},
		bson.M{"$set": bson.M{"members.$.unseenMessage": 0}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("chat or member")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reset unseen count")
	}
	chats, err := s.resolveMembers(ctx, []chatDoc{doc})
	if err != nil {
		return nil, err
	}
	return &chats[0], nil
}

func (s *MongoStore) IncrementUnseen(ctx context.Context, chatID, senderID uuid.UUID) error {
	_, err := s.chats().UpdateOne(ctx,
		bson.M{"_id": chatID.String()},
		bson.M{"$inc": bson.M{"members.$[other].unseenMessage": 1}},
		options.UpdateOne().SetArrayFilters([]interface{}{
			bson.M{"other.userId": bson.M{"$ne": senderID.String()}},
		}),
	)
	if err != nil {
		return errors.Wrap(err, "increment unseen counts")
	}
	return nil
}

func (s *MongoStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := s.messages().InsertOne(ctx, messageDoc{
		ID:        msg.ID.String(),
		ChatID:    msg.ChatID.String(),
		SenderID:  msg.SenderID.String(),
		Content:   msg.Content,
		FileName:  msg.FileName,
		CreatedAt: msg.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "save message")
	}
	return nil
}

// LatestByChat groups the newest message of each chat on the server.
func (s *MongoStore) LatestByChat(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.LastMessage, error) {
	latest := make(map[uuid.UUID]models.LastMessage, len(chatIDs))
	if len(chatIDs) == 0 {
		return latest, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"chatId": bson.M{"$in": idStrings(chatIDs)}}}},
		{{Key: "$sort", Value: bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$chatId",
			"content":   bson.M{"$first": "$content"},
			"fileName":  bson.M{"$first": "$fileName"},
			"createdAt": bson.M{"$first": "$createdAt"},
		}}},
	}
	cursor, err := s.messages().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate latest messages")
	}
	var rows []struct {
		ChatID    string    `bson:"_id"`
		Content   string    `bson:"content"`
		FileName  string    `bson:"fileName"`
		CreatedAt time.Time `bson:"createdAt"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode latest messages")
	}
	for _, row := range rows {
		latest[parseID(row.ChatID)] = models.LastMessage{
			Content:   row.Content,
			FileName:  row.FileName,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return latest, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if _, err := s.users().InsertOne(ctx, newUserDoc(user)); err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc userDoc
	err := s.users().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	user := doc.model()
	return &user, nil
}

func (s *MongoStore) FindUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var doc userDoc
	err := s.users().FindOne(ctx, bson.M{"userName": userName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user by user name")
	}
	user := doc.model()
	return &user, nil
}

func (s *MongoStore) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.findUsers(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}}, nil)
}

func (s *MongoStore) SearchUsers(ctx context.Context, query string, excludeID uuid.UUID) ([]models.User, error) {
	q := regexp.QuoteMeta(query)
	prefix := bson.Regex{Pattern: "^" + q, Options: "i"}
	suffix := bson.Regex{Pattern: q + "$", Options: "i"}

	var or bson.A
	for _, field := range []string{"firstName", "lastName", "userName"} {
		or = append(or, bson.M{field: prefix}, bson.M{field: suffix})
	}
	filter := bson.M{"$or": or}
	if excludeID != uuid.Nil {
		filter["_id"] = bson.M{"$ne": excludeID.String()}
	}
	sort := bson.D{{Key: "firstName", Value: 1}, {Key: "lastName", Value: 1}, {Key: "userName", Value: 1}}
	return s.findUsers(ctx, filter, sort)
}

func (s *MongoStore) findUsers(ctx context.Context, filter bson.M, sort bson.D) ([]models.User, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := s.users().Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}
