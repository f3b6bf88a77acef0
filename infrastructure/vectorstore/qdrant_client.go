package vectorstore

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"technician-marketplace/domain"
)

// QdrantVectorIndex implements the domain.VectorIndex interface using Qdrant.
type QdrantVectorIndex struct {
	points         qdrant.PointsClient
	collectionName string
}

// NewQdrantVectorIndex creates a new QdrantVectorIndex over the named
// collection, creating the collection on first use.
func NewQdrantVectorIndex(addr, collectionName string) (*QdrantVectorIndex, error) {
	if addr == "" {
		return nil, &domain.ConfigurationError{Setting: "QDRANT_ADDR"}
	}
	if collectionName == "" {
		return nil, &domain.ConfigurationError{Setting: "QDRANT_COLLECTION_NAME"}
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("could not connect to Qdrant: %w", err)
	}

	index := &QdrantVectorIndex{
		points:         qdrant.NewPointsClient(conn),
		collectionName: collectionName,
	}

	collectionsClient := qdrant.NewCollectionsClient(conn)
	if err := index.ensureCollectionExists(context.Background(), collectionsClient); err != nil {
		return nil, fmt.Errorf("failed to ensure collection exists: %w", err)
	}

	return index, nil
}

// ensureCollectionExists checks if the collection exists and creates it if it doesn't.
func (c *QdrantVectorIndex) ensureCollectionExists(ctx context.Context, collectionsClient qdrant.CollectionsClient) error {
	_, err := collectionsClient.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: c.collectionName,
	})

	if err != nil {
		log.Printf("Collection %s does not exist, creating...\n", c.collectionName)

		_, err = collectionsClient.Create(ctx, &qdrant.CreateCollection{
			CollectionName: c.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(domain.EmbeddingDimension),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		log.Printf("Collection %s created successfully\n", c.collectionName)
	}

	return nil
}

// pointID derives the point id stored in Qdrant for a profile. Qdrant only
// accepts UUID or integer point ids, so the human-readable technician:<id>
// document id is hashed into a stable UUIDv5. The mapping is deterministic,
// so deletes and visibility patches need nothing but the profile id.
func pointID(profileID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("technician:"+profileID)).String()
}

func pointRef(profileID string) *qdrant.PointId {
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointID(profileID)}}
}

// Upsert creates or replaces the entry for a profile. The point id is
// derived from the profile id, so repeated upserts converge on one entry.
func (c *QdrantVectorIndex) Upsert(ctx context.Context, entry domain.VectorEntry) error {
	point := &qdrant.PointStruct{
		Id:      pointRef(entry.ProfileID),
		Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: entry.Vector}}},
		Payload: entryPayload(entry),
	}

	_, err := c.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         []*qdrant.PointStruct{point},
		Wait:           proto.Bool(true),
	})
	if err != nil {
		return &domain.IndexUnavailableError{Op: "upsert", Err: err}
	}

	return nil
}

// Delete removes the entry for a profile. Qdrant treats deleting an absent
// point as a no-op, which matches the contract.
func (c *QdrantVectorIndex) Delete(ctx context.Context, profileID string) error {
	_, err := c.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: []*qdrant.PointId{pointRef(profileID)}},
			},
		},
		Wait: proto.Bool(true),
	})
	if err != nil {
		return &domain.IndexUnavailableError{Op: "delete", Err: err}
	}

	return nil
}

// SetVisibility patches the stored visibility flag without re-embedding.
func (c *QdrantVectorIndex) SetVisibility(ctx context.Context, profileID string, visible bool) error {
	_, err := c.points.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: c.collectionName,
		Payload: map[string]*qdrant.Value{
			"isVisible": {Kind: &qdrant.Value_BoolValue{BoolValue: visible}},
		},
		PointsSelector: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: []*qdrant.PointId{pointRef(profileID)}},
			},
		},
		Wait: proto.Bool(true),
	})
	if err != nil {
		return &domain.IndexUnavailableError{Op: "set visibility", Err: err}
	}

	return nil
}

// Query returns up to topK matches for the vector, filtered server-side on
// the stored metadata.
func (c *QdrantVectorIndex) Query(ctx context.Context, vector domain.Embedding, filter domain.SearchFilter, topK int) ([]domain.Match, error) {
	conditions := []*qdrant.Condition{matchBool("isVisible", true)}
	if filter.JobType != "" {
		conditions = append(conditions, matchKeyword("jobTypes", string(filter.JobType)))
	}
	if filter.City != "" {
		conditions = append(conditions, matchKeyword("cities", filter.City))
	}
	if len(filter.Tags) > 0 {
		conditions = append(conditions, matchAnyKeyword("tags", filter.Tags))
	}

	searchResult, err := c.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: c.collectionName,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         &qdrant.Filter{Must: conditions},
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, &domain.IndexUnavailableError{Op: "query", Err: err}
	}

	matches := make([]domain.Match, 0, len(searchResult.GetResult()))
	for _, hit := range searchResult.GetResult() {
		payload := hit.GetPayload()
		if payload == nil {
			continue
		}

		profileID := payload["technicianId"].GetStringValue()
		if profileID == "" {
			continue
		}

		matches = append(matches, domain.Match{
			ProfileID: profileID,
			Score:     hit.GetScore(),
		})
	}

	return matches, nil
}

// entryPayload builds the metadata payload stored alongside the vector. The
// profile id rides along so query hits resolve back to the store.
func entryPayload(entry domain.VectorEntry) map[string]*qdrant.Value {
	jobTypes := make([]string, len(entry.JobTypes))
	for i, jt := range entry.JobTypes {
		jobTypes[i] = string(jt)
	}

	return map[string]*qdrant.Value{
		"technicianId": stringValue(entry.ProfileID),
		"jobTypes":     listValue(jobTypes),
		"tags":         listValue(entry.Tags),
		"cities":       listValue(entry.Cities),
		"isVisible":    {Kind: &qdrant.Value_BoolValue{BoolValue: entry.IsVisible}},
	}
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func listValue(items []string) *qdrant.Value {
	values := make([]*qdrant.Value, len(items))
	for i, s := range items {
		values[i] = stringValue(s)
	}
	return &qdrant.Value{Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: values}}}
}

func matchBool(key string, value bool) *qdrant.Condition {
	return fieldCondition(key, &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: value}})
}

func matchKeyword(key, keyword string) *qdrant.Condition {
	return fieldCondition(key, &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: keyword}})
}

func matchAnyKeyword(key string, keywords []string) *qdrant.Condition {
	return fieldCondition(key, &qdrant.Match{MatchValue: &qdrant.Match_Keywords{Keywords: &qdrant.RepeatedStrings{Strings: keywords}}})
}

func fieldCondition(key string, match *qdrant.Match) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{Key: key, Match: match},
		},
	}
}
