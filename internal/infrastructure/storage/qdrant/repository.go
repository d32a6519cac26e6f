// Package qdrant provides a Storage implementation backed by a Qdrant
// payload-only collection, treating it as a generic document store.
package qdrant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
)

// scrollPageSize is the page size used when walking the collection.
const scrollPageSize = 256

// Repository implements ports.Storage using Qdrant. The collection carries
// no vectors, only payload documents keyed by the person id.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureReady creates the collection if it doesn't exist. The collection is
// configured with an empty named-vector map, so points hold payload only.
func (r *Repository) EnsureReady(ctx context.Context) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_ParamsMap{
				ParamsMap: &pb.VectorParamsMap{
					Map: map[string]*pb.VectorParams{},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// Get returns the record stored under id, or nil if absent.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Person, error) {
	resp, err := r.points.Get(ctx, &pb.GetPoints{
		CollectionName: r.collection,
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting point: %w", err)
	}

	if len(resp.Result) == 0 {
		return nil, nil
	}

	return pointToPerson(resp.Result[0])
}

// Put writes the record under its ID, replacing any existing value.
func (r *Repository) Put(ctx context.Context, person *entities.Person) error {
	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{Uuid: person.ID},
		},
		Payload: personToPayload(person),
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}

	return nil
}

// Delete removes the record stored under id. Qdrant's delete does not
// report whether the point existed, so existence is read first; the two
// calls are not atomic, which matches the storage contract's
// last-write-wins discipline.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	_, err = r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
					},
				},
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("deleting point: %w", err)
	}

	return true, nil
}

// Find returns records matching the query, ordered ascending by display
// name, then sliced by offset/limit. Qdrant cannot express substring match
// or payload ordering on a scroll, so the collection is walked and the
// query is applied here.
func (r *Repository) Find(ctx context.Context, q ports.Query) ([]*entities.Person, error) {
	persons, err := r.scrollAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := make([]*entities.Person, 0, len(persons))
	for _, p := range persons {
		if q.NameContains != "" && !strings.Contains(p.NormalizedName, q.NameContains) {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if q.Offset > 0 {
		if q.Offset >= len(result) {
			return []*entities.Person{}, nil
		}
		result = result[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

// FindOne returns the record whose normalized name equals normalizedName
// exactly, or nil if absent.
func (r *Repository) FindOne(ctx context.Context, normalizedName string) (*entities.Person, error) {
	resp, err := r.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: r.collection,
		Limit:          proto.Uint32(1),
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: "normalized_name",
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{
									Keyword: normalizedName,
								},
							},
						},
					},
				},
			},
		},
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scrolling points by name: %w", err)
	}

	if len(resp.Result) == 0 {
		return nil, nil
	}
	return pointToPerson(resp.Result[0])
}

// Count returns the total number of stored records. It uses the exact
// count RPC; the collection info's point count is only approximate under
// concurrent writes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	resp, err := r.points.Count(ctx, &pb.CountPoints{
		CollectionName: r.collection,
		Exact:          proto.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// scrollAll walks the full collection page by page.
func (r *Repository) scrollAll(ctx context.Context, filter *pb.Filter) ([]*entities.Person, error) {
	var persons []*entities.Person
	var offset *pb.PointId

	for {
		resp, err := r.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: r.collection,
			Limit:          proto.Uint32(scrollPageSize),
			Offset:         offset,
			Filter:         filter,
			WithPayload: &pb.WithPayloadSelector{
				SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling points: %w", err)
		}

		for _, point := range resp.Result {
			person, err := pointToPerson(point)
			if err != nil {
				return nil, err
			}
			persons = append(persons, person)
		}

		if resp.NextPageOffset == nil {
			return persons, nil
		}
		offset = resp.NextPageOffset
	}
}

// personToPayload converts a person to a Qdrant payload document. Metadata
// is stored as a nested struct value.
func personToPayload(person *entities.Person) map[string]*pb.Value {
	payload := map[string]*pb.Value{
		"name":            {Kind: &pb.Value_StringValue{StringValue: person.Name}},
		"normalized_name": {Kind: &pb.Value_StringValue{StringValue: person.NormalizedName}},
		"description":     {Kind: &pb.Value_StringValue{StringValue: person.Description}},
		"created_at":      {Kind: &pb.Value_StringValue{StringValue: person.CreatedAt.Format(time.RFC3339Nano)}},
		"updated_at":      {Kind: &pb.Value_StringValue{StringValue: person.UpdatedAt.Format(time.RFC3339Nano)}},
	}

	if len(person.Metadata) > 0 {
		fields := make(map[string]*pb.Value, len(person.Metadata))
		for k, v := range person.Metadata {
			fields[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
		}
		payload["metadata"] = &pb.Value{
			Kind: &pb.Value_StructValue{StructValue: &pb.Struct{Fields: fields}},
		}
	}

	return payload
}

// pointToPerson converts a retrieved Qdrant point to a person.
func pointToPerson(point *pb.RetrievedPoint) (*entities.Person, error) {
	payload := point.Payload

	person := &entities.Person{
		ID:             point.Id.GetUuid(),
		Name:           getStringValue(payload, "name"),
		NormalizedName: getStringValue(payload, "normalized_name"),
		Description:    getStringValue(payload, "description"),
	}

	createdAt, err := parseTime(payload, "created_at")
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(payload, "updated_at")
	if err != nil {
		return nil, err
	}
	person.CreatedAt = createdAt
	person.UpdatedAt = updatedAt

	if meta := payload["metadata"].GetStructValue(); meta != nil {
		person.Metadata = make(map[string]string, len(meta.Fields))
		for k, v := range meta.Fields {
			person.Metadata[k] = v.GetStringValue()
		}
	}

	return person, nil
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if value, ok := payload[key]; ok {
		return value.GetStringValue()
	}
	return ""
}

func parseTime(payload map[string]*pb.Value, key string) (time.Time, error) {
	raw := getStringValue(payload, key)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", key, err)
	}
	return parsed, nil
}
