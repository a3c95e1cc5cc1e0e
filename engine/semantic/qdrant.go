package semantic

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// Qdrant stores records in a Qdrant collection over gRPC. Kept as a
// selectable alternative to the Postgres backend for deployments that
// already run Qdrant.
type Qdrant struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dimension   int
}

// NewQdrant connects to Qdrant at the given gRPC address.
func NewQdrant(addr, collection string) (*Qdrant, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: %w: dial qdrant %s: %w", domain.ErrStoreUnavailable, addr, err)
	}
	return &Qdrant{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// NewQdrantWithClients injects gRPC clients directly. Used in tests.
func NewQdrantWithClients(points pb.PointsClient, collections pb.CollectionsClient, collection string) *Qdrant {
	return &Qdrant{points: points, collections: collections, collection: collection}
}

// EnsureReady creates the collection with cosine distance if missing.
func (q *Qdrant) EnsureReady(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return domain.NewConfigError("dimension", "must be positive")
	}
	list, err := q.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: %w: list collections: %w", domain.ErrStoreUnavailable, err)
	}
	q.dimension = dimension
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			return nil
		}
	}
	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: %w: create collection %s: %w", domain.ErrStoreUnavailable, q.collection, err)
	}
	return nil
}

// Add upserts points. Record IDs are fresh UUIDs, so a retried batch
// writes duplicate content under new points rather than overwriting.
func (q *Qdrant) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		if len(r.Embedding) != q.dimension {
			return fmt.Errorf("semantic add: %w: got %d, collection holds %d",
				domain.ErrDimensionMismatch, len(r.Embedding), q.dimension)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: r.ID}},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: r.Embedding}},
			},
			Payload: map[string]*pb.Value{
				"content":     {Kind: &pb.Value_StringValue{StringValue: r.Chunk.Text}},
				"source":      {Kind: &pb.Value_StringValue{StringValue: r.Chunk.Source}},
				"page":        {Kind: &pb.Value_IntegerValue{IntegerValue: int64(r.Chunk.Page)}},
				"chunk_index": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(r.Chunk.Index)}},
			},
		}
	}
	wait := true
	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: %w: upsert %d points: %w", domain.ErrStoreUnavailable, len(points), err)
	}
	return nil
}

// Search performs k-NN similarity search.
func (q *Qdrant) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if len(vector) != q.dimension {
		return nil, fmt.Errorf("semantic search: %w: got %d, collection holds %d",
			domain.ErrDimensionMismatch, len(vector), q.dimension)
	}
	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: %w: search: %w", domain.ErrStoreUnavailable, err)
	}

	results := make([]SearchResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		sr := SearchResult{Score: r.GetScore()}
		for key, val := range r.GetPayload() {
			switch key {
			case "content":
				sr.Chunk.Text = val.GetStringValue()
			case "source":
				sr.Chunk.Source = val.GetStringValue()
			case "page":
				sr.Chunk.Page = int(val.GetIntegerValue())
			case "chunk_index":
				sr.Chunk.Index = int(val.GetIntegerValue())
			}
		}
		results[i] = sr
	}
	return results, nil
}

// Health lists collections to verify connectivity.
func (q *Qdrant) Health(ctx context.Context) error {
	if _, err := q.collections.List(ctx, &pb.ListCollectionsRequest{}); err != nil {
		return fmt.Errorf("semantic: %w: ping: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear deletes every point in the collection; the collection itself stays.
func (q *Qdrant) Clear(ctx context.Context) error {
	wait := true
	_, err := q.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: &pb.Filter{}},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: %w: clear: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the underlying gRPC connection.
func (q *Qdrant) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
