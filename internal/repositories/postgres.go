package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidshare/backend/internal/db"
	"github.com/vidshare/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, user.ID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, name, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)

	var user models.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}

	return user, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record. The blob name is the record's natural key:
// recording the same blob twice returns ErrConflict instead of a duplicate row.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, title, blob_name, container, thumbnail_blob_name, publisher, producer, genre, age_rating, uploaded_at, views)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
    `, video.ID, video.Title, video.BlobName, video.Container, video.ThumbnailBlobName,
		video.Publisher, video.Producer, video.Genre, video.AgeRating, video.UploadedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

const videoColumns = `id, title, blob_name, container, thumbnail_blob_name, publisher, producer, genre, age_rating, uploaded_at, views`

// List returns videos newest-first with their comments and ratings attached.
func (r *PostgresVideoRepository) List(ctx context.Context) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        ORDER BY uploaded_at DESC, id DESC
        LIMIT 100
    `)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	if len(videos) == 0 {
		return videos, nil
	}

	ids := make([]string, len(videos))
	index := make(map[string]int, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
		index[v.ID] = i
	}

	if err := r.attachComments(ctx, conn, ids, func(videoID string, c models.Comment) {
		i := index[videoID]
		videos[i].Comments = append(videos[i].Comments, c)
	}); err != nil {
		return nil, err
	}

	if err := r.attachRatings(ctx, conn, ids, func(videoID string, rt models.Rating) {
		i := index[videoID]
		videos[i].Ratings = append(videos[i].Ratings, rt)
	}); err != nil {
		return nil, err
	}

	return videos, nil
}

// Get fetches a single video with its comments and ratings.
func (r *PostgresVideoRepository) Get(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`
        FROM videos
        WHERE id = $1
    `, id)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, err
	}

	ids := []string{video.ID}
	if err := r.attachComments(ctx, conn, ids, func(_ string, c models.Comment) {
		video.Comments = append(video.Comments, c)
	}); err != nil {
		return models.Video{}, err
	}
	if err := r.attachRatings(ctx, conn, ids, func(_ string, rt models.Rating) {
		video.Ratings = append(video.Ratings, rt)
	}); err != nil {
		return models.Video{}, err
	}

	return video, nil
}

// AddComment appends a comment to the video's collection. The guarded insert is
// a single statement, so concurrent appends cannot lose each other's writes.
func (r *PostgresVideoRepository) AddComment(ctx context.Context, videoID string, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	author := comment.Author
	if author == "" {
		author = "Anonymous"
	}

	tag, err := conn.Exec(ctx, `
        INSERT INTO video_comments (id, video_id, author, body, created_at)
        SELECT $1, $2, $3, $4, $5
        WHERE EXISTS (SELECT 1 FROM videos WHERE id = $2)
    `, comment.ID, videoID, author, comment.Body, comment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AddRating appends a rating to the video's collection.
func (r *PostgresVideoRepository) AddRating(ctx context.Context, videoID string, rating models.Rating) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	author := rating.Author
	if author == "" {
		author = "Anonymous"
	}

	tag, err := conn.Exec(ctx, `
        INSERT INTO video_ratings (id, video_id, author, score, created_at)
        SELECT $1, $2, $3, $4, $5
        WHERE EXISTS (SELECT 1 FROM videos WHERE id = $2)
    `, rating.ID, videoID, author, rating.Score, rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert rating: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews bumps the view counter atomically in the database, so N
// concurrent increments always add exactly N.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET views = views + 1
        WHERE id = $1
    `, videoID)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	if err := row.Scan(&video.ID, &video.Title, &video.BlobName, &video.Container, &video.ThumbnailBlobName,
		&video.Publisher, &video.Producer, &video.Genre, &video.AgeRating, &video.UploadedAt, &video.Views); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, err
		}
		return models.Video{}, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

type poolConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PostgresVideoRepository) attachComments(ctx context.Context, conn poolConn, videoIDs []string, attach func(videoID string, c models.Comment)) error {
	rows, err := conn.Query(ctx, `
        SELECT video_id, id, author, body, created_at
        FROM video_comments
        WHERE video_id = ANY($1)
        ORDER BY created_at ASC, id ASC
    `, videoIDs)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			videoID string
			comment models.Comment
		)
		if err := rows.Scan(&videoID, &comment.ID, &comment.Author, &comment.Body, &comment.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		attach(videoID, comment)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}

	return nil
}

func (r *PostgresVideoRepository) attachRatings(ctx context.Context, conn poolConn, videoIDs []string, attach func(videoID string, rt models.Rating)) error {
	rows, err := conn.Query(ctx, `
        SELECT video_id, id, author, score, created_at
        FROM video_ratings
        WHERE video_id = ANY($1)
        ORDER BY created_at ASC, id ASC
    `, videoIDs)
	if err != nil {
		return fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			videoID string
			rating  models.Rating
		)
		if err := rows.Scan(&videoID, &rating.ID, &rating.Author, &rating.Score, &rating.CreatedAt); err != nil {
			return fmt.Errorf("scan rating: %w", err)
		}
		attach(videoID, rating)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ratings: %w", err)
	}

	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ VideoRepository = (*PostgresVideoRepository)(nil)
