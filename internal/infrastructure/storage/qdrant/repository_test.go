package qdrant

import (
	"context"
	"testing"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
)

// fakePointsClient serves canned scroll pages and counts. Unimplemented
// methods panic through the embedded interface.
type fakePointsClient struct {
	pb.PointsClient
	pages      [][]*pb.RetrievedPoint
	scrollCall int
	count      uint64
	lastCount  *pb.CountPoints
}

func (f *fakePointsClient) Scroll(_ context.Context, _ *pb.ScrollPoints, _ ...grpc.CallOption) (*pb.ScrollResponse, error) {
	if f.scrollCall >= len(f.pages) {
		return &pb.ScrollResponse{}, nil
	}
	resp := &pb.ScrollResponse{Result: f.pages[f.scrollCall]}
	f.scrollCall++
	if f.scrollCall < len(f.pages) {
		resp.NextPageOffset = &pb.PointId{
			PointIdOptions: &pb.PointId_Num{Num: uint64(f.scrollCall)},
		}
	}
	return resp, nil
}

func (f *fakePointsClient) Count(_ context.Context, in *pb.CountPoints, _ ...grpc.CallOption) (*pb.CountResponse, error) {
	f.lastCount = in
	return &pb.CountResponse{Result: &pb.CountResult{Count: f.count}}, nil
}

func testRepo(points *fakePointsClient) *Repository {
	return &Repository{
		points:     points,
		collection: "rolodex_persons",
	}
}

func testPerson(id, name string) *entities.Person {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &entities.Person{
		ID:             id,
		Name:           name,
		NormalizedName: entities.NormalizeName(name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func retrievedPoint(p *entities.Person) *pb.RetrievedPoint {
	return &pb.RetrievedPoint{
		Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID}},
		Payload: personToPayload(p),
	}
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()

	page := []*pb.RetrievedPoint{
		retrievedPoint(testPerson("person-1", "Zoe")),
		retrievedPoint(testPerson("person-2", "Mark")),
		retrievedPoint(testPerson("person-3", "Maria")),
	}

	t.Run("substring match ordered by display name", func(t *testing.T) {
		repo := testRepo(&fakePointsClient{pages: [][]*pb.RetrievedPoint{page}})

		persons, err := repo.Find(ctx, ports.Query{NameContains: "mar"})
		require.NoError(t, err)
		require.Len(t, persons, 2)
		assert.Equal(t, "Maria", persons[0].Name)
		assert.Equal(t, "Mark", persons[1].Name)
	})

	t.Run("limit and offset slice after ordering", func(t *testing.T) {
		repo := testRepo(&fakePointsClient{pages: [][]*pb.RetrievedPoint{page}})

		persons, err := repo.Find(ctx, ports.Query{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "Mark", persons[0].Name)
	})

	t.Run("walks every scroll page", func(t *testing.T) {
		fake := &fakePointsClient{pages: [][]*pb.RetrievedPoint{
			{retrievedPoint(testPerson("person-1", "Zoe"))},
			{retrievedPoint(testPerson("person-2", "Mark"))},
		}}
		repo := testRepo(fake)

		persons, err := repo.Find(ctx, ports.Query{})
		require.NoError(t, err)
		assert.Len(t, persons, 2)
		assert.Equal(t, 2, fake.scrollCall)
	})

	t.Run("metacharacters match literally", func(t *testing.T) {
		repo := testRepo(&fakePointsClient{pages: [][]*pb.RetrievedPoint{{
			retrievedPoint(testPerson("person-1", "Ann")),
			retrievedPoint(testPerson("person-2", "A_na")),
		}}})

		persons, err := repo.Find(ctx, ports.Query{NameContains: "_n"})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "A_na", persons[0].Name)
	})
}

func TestRepository_Count(t *testing.T) {
	fake := &fakePointsClient{count: 7}
	repo := testRepo(fake)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	require.NotNil(t, fake.lastCount)
	assert.Equal(t, "rolodex_persons", fake.lastCount.CollectionName)
	require.NotNil(t, fake.lastCount.Exact, "count must request an exact total")
	assert.True(t, *fake.lastCount.Exact)
}

func TestPayloadRoundTrip(t *testing.T) {
	person := testPerson("person-1", "  Maria Silva ")
	person.Description = "College friend"
	person.Metadata = map[string]string{
		entities.MetaEmail: "maria@example.com",
		"nickname":         "Mia",
	}

	restored, err := pointToPerson(retrievedPoint(person))
	require.NoError(t, err)
	assert.Equal(t, person, restored)
}
