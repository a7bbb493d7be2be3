package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"association-treasury/internal/mapper"
	"association-treasury/internal/models"
)

// DB wraps the remote store. Each method is a single round trip against one
// collection; there is no batching and no retry. Records cross the boundary
// through the mapper package in both directions.
type DB struct {
	client       *mongo.Client
	members      *mongo.Collection
	transactions *mongo.Collection
	budgets      *mongo.Collection
	messages     *mongo.Collection
	settings     *mongo.Collection
	users        *mongo.Collection
}

// New creates a new database connection
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(dbName)
	return &DB{
		client:       client,
		members:      database.Collection("members"),
		transactions: database.Collection("transactions"),
		budgets:      database.Collection("budgets"),
		messages:     database.Collection("messages"),
		settings:     database.Collection("settings"),
		users:        database.Collection("users"),
	}, nil
}

// Close closes the database connection
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// findAll fetches every record of a collection as raw documents.
func findAll(ctx context.Context, coll *mongo.Collection) ([]bson.M, error) {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err == nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// insertOne inserts a document and returns the server-assigned identifier.
func insertOne(ctx context.Context, coll *mongo.Collection, doc bson.M) (string, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", coll.Name(), err)
	}
	return mapper.DocID(res.InsertedID), nil
}

// idFilter matches a record by its identifier, whether the key was assigned
// by the store as an ObjectID or written as a plain string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

// Members returns all member records.
func (db *DB) Members(ctx context.Context) ([]models.Member, error) {
	docs, err := findAll(ctx, db.members)
	if err != nil {
		return nil, err
	}
	members := make([]models.Member, 0, len(docs))
	for _, doc := range docs {
		members = append(members, mapper.MemberFromDoc(doc))
	}
	return members, nil
}

// InsertMember inserts a new member and returns its identifier.
func (db *DB) InsertMember(ctx context.Context, m models.Member) (string, error) {
	return insertOne(ctx, db.members, mapper.MemberToDoc(m))
}

// UpdateMember overwrites a member's mutable fields.
func (db *DB) UpdateMember(ctx context.Context, m models.Member) error {
	_, err := db.members.UpdateOne(ctx, idFilter(m.ID), bson.M{"$set": mapper.MemberToDoc(m)})
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

// DeleteMember deletes a member by ID.
func (db *DB) DeleteMember(ctx context.Context, id string) error {
	_, err := db.members.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// Transactions returns all transaction records.
func (db *DB) Transactions(ctx context.Context) ([]models.Transaction, error) {
	docs, err := findAll(ctx, db.transactions)
	if err != nil {
		return nil, err
	}
	transactions := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		transactions = append(transactions, mapper.TransactionFromDoc(doc))
	}
	return transactions, nil
}

// InsertTransaction inserts a new transaction and returns its identifier.
func (db *DB) InsertTransaction(ctx context.Context, t models.Transaction) (string, error) {
	return insertOne(ctx, db.transactions, mapper.TransactionToDoc(t))
}

// UpdateTransactionStatus sets the status of a transaction.
func (db *DB) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error {
	update := bson.M{"$set": bson.M{"status": string(status)}}
	_, err := db.transactions.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

// DeleteTransaction deletes a transaction by ID.
func (db *DB) DeleteTransaction(ctx context.Context, id string) error {
	_, err := db.transactions.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// Budgets returns all budget records.
func (db *DB) Budgets(ctx context.Context) ([]models.Budget, error) {
	docs, err := findAll(ctx, db.budgets)
	if err != nil {
		return nil, err
	}
	budgets := make([]models.Budget, 0, len(docs))
	for _, doc := range docs {
		budgets = append(budgets, mapper.BudgetFromDoc(doc))
	}
	return budgets, nil
}

// InsertBudget inserts a new budget and returns its identifier.
func (db *DB) InsertBudget(ctx context.Context, b models.Budget) (string, error) {
	return insertOne(ctx, db.budgets, mapper.BudgetToDoc(b))
}

// UpdateBudgetAllocation sets the allocated amount of a budget.
func (db *DB) UpdateBudgetAllocation(ctx context.Context, id string, amount float64) error {
	update := bson.M{"$set": bson.M{"allocated_amount": amount}}
	_, err := db.budgets.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to update budget allocation: %w", err)
	}
	return nil
}

// Messages returns all community messages.
func (db *DB) Messages(ctx context.Context) ([]models.CommunityMessage, error) {
	docs, err := findAll(ctx, db.messages)
	if err != nil {
		return nil, err
	}
	messages := make([]models.CommunityMessage, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, mapper.MessageFromDoc(doc))
	}
	return messages, nil
}

// InsertMessage inserts a community message and returns its identifier.
func (db *DB) InsertMessage(ctx context.Context, m models.CommunityMessage) (string, error) {
	return insertOne(ctx, db.messages, mapper.MessageToDoc(m))
}

// DeleteMessage deletes a community message by ID.
func (db *DB) DeleteMessage(ctx context.Context, id string) error {
	_, err := db.messages.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Settings returns the singleton settings record, or nil when the
// collection is empty.
func (db *DB) Settings(ctx context.Context) (*models.Settings, error) {
	var doc bson.M
	err := db.settings.FindOne(ctx, bson.M{}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	s := mapper.SettingsFromDoc(doc)
	return &s, nil
}

// UpdateSettings replaces the singleton settings record, creating it when
// the collection is empty.
func (db *DB) UpdateSettings(ctx context.Context, s models.Settings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.settings.ReplaceOne(ctx, bson.M{}, mapper.SettingsToDoc(s), opts)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

// FindCredential looks up a credential record by email. Returns nil when no
// record matches.
func (db *DB) FindCredential(ctx context.Context, email string) (*models.Credential, error) {
	var doc bson.M
	err := db.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}
	cred := mapper.CredentialFromDoc(doc)
	return &cred, nil
}

// WatchMessages opens a change stream on the messages collection, filtered
// to insert and delete events, with the full document on inserts.
func (db *DB) WatchMessages(ctx context.Context) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "delete"}},
		}}},
	}
	stream, err := db.messages.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to watch messages: %w", err)
	}
	return stream, nil
}
