package inmemory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

// newTestStore создает хранилище и одного пользователя для тестов.
func newTestStore(t *testing.T) (*Store, *models.User) {
	store := New()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, &models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Username: "testuser",
		Password: "hashed",
	})
	require.NoError(t, err)
	return store, user
}

func TestStore_CreateAndGetUser(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	retrieved, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)

	byEmail, err := store.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := store.GetUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	_, err = store.GetUserByID(ctx, "non-existent-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CreateUser_Duplicate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, &models.User{
		Name: "Other", Email: "test@example.com", Username: "other", Password: "x",
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = store.CreateUser(ctx, &models.User{
		Name: "Other", Email: "other@example.com", Username: "testuser", Password: "x",
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestStore_ListPosts_Search(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreatePost(ctx, &models.Post{Body: "hello #intro", UserID: user.ID})
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, &models.Post{Body: "another post", UserID: user.ID})
	require.NoError(t, err)

	posts, total, err := store.ListPosts(ctx, storage.ListParams{Limit: 10, Query: "HELLO"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello #intro", posts[0].Body)

	// Пустое хранилище по несуществующему запросу — пустой результат, не ошибка.
	posts, total, err = store.ListPosts(ctx, storage.ListParams{Limit: 10, Query: "nothing"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, posts)
}

func TestStore_ListPosts_Pagination(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.CreatePost(ctx, &models.Post{
			Body:   fmt.Sprintf("post %d #tag", i),
			UserID: user.ID,
		})
		require.NoError(t, err)
	}

	full, total, err := store.ListPosts(ctx, storage.ListParams{Limit: 100})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, full, 5)

	// Конкатенация страниц дает полный порядок без дублей и пропусков.
	var pages []*models.Post
	for offset := 0; offset < 5; offset += 2 {
		page, _, err := store.ListPosts(ctx, storage.ListParams{Limit: 2, Offset: offset})
		require.NoError(t, err)
		pages = append(pages, page...)
	}
	require.Len(t, pages, 5)
	for i := range full {
		assert.Equal(t, full[i].ID, pages[i].ID)
	}

	// Смещение за пределами данных — пустая страница.
	empty, _, err := store.ListPosts(ctx, storage.ListParams{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_Likes_Deduplicated(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &models.Post{Body: "likeable #post", UserID: user.ID})
	require.NoError(t, err)

	// Повторное добавление — push if absent, счетчик не растет.
	require.NoError(t, store.AddLike(ctx, post.ID, user.ID))
	require.NoError(t, store.AddLike(ctx, post.ID, user.ID))

	count, err := store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	hasLiked, err := store.HasLiked(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, hasLiked)

	require.NoError(t, store.RemoveLike(ctx, post.ID, user.ID))
	hasLiked, err = store.HasLiked(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, hasLiked)
}

func TestStore_Follow_RoundTrip(t *testing.T) {
	store, a := newTestStore(t)
	ctx := context.Background()

	b, err := store.CreateUser(ctx, &models.User{
		Name: "B", Email: "b@example.com", Username: "buser", Password: "x",
	})
	require.NoError(t, err)

	require.NoError(t, store.Follow(ctx, a.ID, b.ID))

	isFollowing, err := store.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	followers, err := store.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers)

	following, err := store.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, following)

	// unfollow(follow(A,B)) возвращает исходное состояние с обеих сторон.
	require.NoError(t, store.Unfollow(ctx, a.ID, b.ID))

	isFollowing, err = store.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	followers, err = store.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, followers)

	following, err = store.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, following)
}

func TestStore_SavedPosts(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &models.Post{Body: "bookmark #me", UserID: user.ID})
	require.NoError(t, err)

	require.NoError(t, store.SavePost(ctx, user.ID, post.ID))
	require.NoError(t, store.SavePost(ctx, user.ID, post.ID)) // идемпотентно

	saved, total, err := store.ListSavedPosts(ctx, user.ID, storage.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, saved, 1)
	assert.Equal(t, post.ID, saved[0].ID)

	require.NoError(t, store.UnsavePost(ctx, user.ID, post.ID))
	saved, _, err = store.ListSavedPosts(ctx, user.ID, storage.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestStore_Comments(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &models.Post{Body: "discuss #topic", UserID: user.ID})
	require.NoError(t, err)

	_, err = store.CreateComment(ctx, &models.Comment{
		Body: "reply", PostID: "missing-post", UserID: user.ID,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	first, err := store.CreateComment(ctx, &models.Comment{
		Body: "first", PostID: post.ID, UserID: user.ID,
	})
	require.NoError(t, err)
	second, err := store.CreateComment(ctx, &models.Comment{
		Body: "second", PostID: post.ID, UserID: user.ID,
	})
	require.NoError(t, err)

	list, err := store.ListCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Старые первыми.
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	count, err := store.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, store.DeleteComment(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteComment(ctx, first.ID), storage.ErrNotFound)
}

func TestStore_Notifications(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	// Очистка пустого журнала — no-op без ошибки.
	require.NoError(t, store.ClearNotifications(ctx, user.ID))

	for i := 0; i < 3; i++ {
		_, err := store.CreateNotification(ctx, &models.Notification{
			UserID: user.ID,
			Body:   fmt.Sprintf("notification %d", i),
			Type:   models.NotificationTypeLike,
		})
		require.NoError(t, err)
	}

	list, err := store.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Новые первыми.
	assert.Equal(t, "notification 2", list[0].Body)
	assert.Equal(t, "notification 0", list[2].Body)

	require.NoError(t, store.ClearNotifications(ctx, user.ID))
	list, err = store.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_DeletePost_RemovesDependents(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &models.Post{Body: "doomed #post", UserID: user.ID})
	require.NoError(t, err)
	require.NoError(t, store.AddLike(ctx, post.ID, user.ID))
	comment, err := store.CreateComment(ctx, &models.Comment{
		Body: "reply", PostID: post.ID, UserID: user.ID,
	})
	require.NoError(t, err)
	require.NoError(t, store.AddCommentLike(ctx, comment.ID, user.ID))

	require.NoError(t, store.DeletePost(ctx, post.ID))

	// Лайки, комментарии и лайки комментариев уходят вместе с постом.
	likes, err := store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, likes)

	comments, err := store.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, comments)

	_, err = store.GetCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	commentLikes, err := store.CountCommentLikes(ctx, comment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, commentLikes)
}

func TestStore_DeleteComment_RemovesLikes(t *testing.T) {
	store, user := newTestStore(t)
	ctx := context.Background()

	post, err := store.CreatePost(ctx, &models.Post{Body: "stays #post", UserID: user.ID})
	require.NoError(t, err)
	comment, err := store.CreateComment(ctx, &models.Comment{
		Body: "reply", PostID: post.ID, UserID: user.ID,
	})
	require.NoError(t, err)
	require.NoError(t, store.AddCommentLike(ctx, comment.ID, user.ID))

	require.NoError(t, store.DeleteComment(ctx, comment.ID))

	count, err := store.CountCommentLikes(ctx, comment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Сам пост остается.
	_, err = store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
}

func TestStore_UpdateUser_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.UpdateUser(context.Background(), &models.User{ID: "ghost"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
