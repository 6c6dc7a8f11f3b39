package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uxmentor/uxmentor-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore is a DocumentStore backed by MongoDB.
type MongoStore struct {
	client    *mongo.Client
	documents *mongo.Collection
	chunks    *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the collections.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{
			ObjectIDAsHexString: true,
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		documents: db.Collection("documents"),
		chunks:    db.Collection("document_chunks"),
	}, nil
}

func (s *MongoStore) InsertDocument(ctx context.Context, doc *types.Document) error {
	_, err := s.documents.InsertOne(ctx, doc)
	return err
}

func (s *MongoStore) UpdateDocument(ctx context.Context, doc *types.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	_, err := s.documents.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	return err
}

func (s *MongoStore) FindDocumentByPath(ctx context.Context, path string) (*types.Document, error) {
	var doc types.Document
	err := s.documents.FindOne(ctx, bson.M{"file_path": path}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	err := s.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	cursor, err := s.documents.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*types.Document
	for cursor.Next(ctx) {
		var doc types.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, cursor.Err()
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.documents.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return types.ErrDocumentNotFound
	}
	return nil
}

func (s *MongoStore) InsertChunks(ctx context.Context, chunks []*types.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	records := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk
	}
	_, err := s.chunks.InsertMany(ctx, records)
	return err
}

func (s *MongoStore) FindChunksBySource(ctx context.Context, source string) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, bson.M{"source": source},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}}))
}

func (s *MongoStore) FindChunksWithEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, bson.M{"embedding": bson.M{"$ne": ""}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "chunk_index", Value: 1}}))
}

func (s *MongoStore) FindChunksWithoutEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, bson.M{"embedding": ""},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "chunk_index", Value: 1}}))
}

func (s *MongoStore) UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error {
	encoded, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	_, err = s.chunks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"embedding":  string(encoded),
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *MongoStore) DeleteChunksBySource(ctx context.Context, source string) error {
	_, err := s.chunks.DeleteMany(ctx, bson.M{"source": source})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) queryChunks(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]*types.DocumentChunk, error) {
	cursor, err := s.chunks.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chunks []*types.DocumentChunk
	for cursor.Next(ctx) {
		var chunk types.DocumentChunk
		if err := cursor.Decode(&chunk); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, cursor.Err()
}
