package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/models"
)

type published struct {
	topic   string
	key     string
	payload interface{}
}

type fakePublisher struct {
	published []published
	err       error
}

func (p *fakePublisher) Publish(topic, key string, payload interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, published{topic, key, payload})
	return nil
}

type fakeDeduper struct {
	enqueued map[string]bool
}

func (d *fakeDeduper) IsEnqueued(_ context.Context, kind, id string) bool {
	return d.enqueued[kind+":"+id]
}

func (d *fakeDeduper) MarkEnqueued(_ context.Context, kind, id string) error {
	d.enqueued[kind+":"+id] = true
	return nil
}

func TestHandleItemCreatedNews(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, nil)

	err := d.HandleItemCreated(context.Background(), ItemCreated{Kind: KindNews, ID: "abc-123"})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, kafka_client.KAFKA_TOPIC_NEWS_ANALYSIS, pub.published[0].topic)
	assert.Equal(t, "abc-123", pub.published[0].key)
	assert.Equal(t, models.NewsAnalysisJob{NewsUUID: "abc-123"}, pub.published[0].payload)
}

func TestHandleItemCreatedArticle(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, nil)

	err := d.HandleItemCreated(context.Background(), ItemCreated{Kind: KindArticle, ID: "42"})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, kafka_client.KAFKA_TOPIC_ARTICLE_ANALYSIS, pub.published[0].topic)
	assert.Equal(t, models.ArticleAnalysisJob{ArticleID: 42}, pub.published[0].payload)
}

func TestHandleItemCreatedBadArticleID(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, nil)

	err := d.HandleItemCreated(context.Background(), ItemCreated{Kind: KindArticle, ID: "not-a-number"})
	require.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestHandleItemCreatedPublishFailureSurfaces(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := NewDispatcher(pub, nil)

	err := d.HandleItemCreated(context.Background(), ItemCreated{Kind: KindNews, ID: "abc"})
	require.ErrorContains(t, err, "broker down")
}

func TestHandleItemCreatedDedup(t *testing.T) {
	pub := &fakePublisher{}
	dedup := &fakeDeduper{enqueued: map[string]bool{}}
	d := NewDispatcher(pub, dedup)

	evt := ItemCreated{Kind: KindNews, ID: "abc"}
	require.NoError(t, d.HandleItemCreated(context.Background(), evt))
	require.NoError(t, d.HandleItemCreated(context.Background(), evt))

	assert.Len(t, pub.published, 1)
}
