package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// CandidateHit is one semantic search result: the candidate whose resume text
// best matched the query, with the matching snippet.
type CandidateHit struct {
	CandidateID uint    `json:"candidate_id"`
	Score       float32 `json:"score"`
	Snippet     string  `json:"snippet"`
}

// ResumeIndex holds embeddings of extracted resume text for semantic search.
// Indexing is best-effort: the pipeline logs failures but never fails a file
// over them.
type ResumeIndex interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, candidateID uint, text string) error
	Search(ctx context.Context, query string, limit int) ([]CandidateHit, error)
	DeleteCandidate(ctx context.Context, candidateID uint) error
}

type qdrantResumeIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewQdrantResumeIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (ResumeIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port; the REST port in the URL is ignored unless set explicitly
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantResumeIndex{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements ResumeIndex.
func (q *qdrantResumeIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// IndexCandidate implements ResumeIndex. Existing points for the candidate
// are dropped first so a re-ingested resume replaces its old chunks.
func (q *qdrantResumeIndex) IndexCandidate(ctx context.Context, candidateID uint, text string) error {
	if err := q.DeleteCandidate(ctx, candidateID); err != nil {
		return err
	}

	chunks := q.chunker.ChunkText(text, 1000, 100)
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := q.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed resume chunk: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.New().String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"candidate_id": strconv.FormatUint(uint64(candidateID), 10),
				"text":         chunk,
			}),
		})
	}
	if len(points) == 0 {
		return nil
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert resume chunks: %w", err)
	}
	return nil
}

// Search implements ResumeIndex. Chunk hits are collapsed to the best hit
// per candidate, preserving score order.
func (q *qdrantResumeIndex) Search(ctx context.Context, query string, limit int) ([]CandidateHit, error) {
	embedding, err := q.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Over-fetch so deduplication by candidate can still fill the limit
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit * 4)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search resumes: %w", err)
	}

	seen := make(map[uint]struct{})
	var hits []CandidateHit
	for _, point := range points {
		id, snippet := payloadFields(point.Payload)
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		hits = append(hits, CandidateHit{
			CandidateID: id,
			Score:       point.Score,
			Snippet:     snippet,
		})
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

// DeleteCandidate implements ResumeIndex.
func (q *qdrantResumeIndex) DeleteCandidate(ctx context.Context, candidateID uint) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("candidate_id", strconv.FormatUint(uint64(candidateID), 10)),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete resume chunks: %w", err)
	}
	return nil
}

func payloadFields(payload map[string]*qdrant.Value) (uint, string) {
	var id uint
	var snippet string

	if v, ok := payload["candidate_id"]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			if parsed, err := strconv.ParseUint(s.StringValue, 10, 64); err == nil {
				id = uint(parsed)
			}
		}
	}
	if v, ok := payload["text"]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			snippet = s.StringValue
		}
	}
	return id, snippet
}
