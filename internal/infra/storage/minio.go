package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// アップロードされたメディア（写真・PDF・アバター）の保存先。
type MediaStore interface {
	//保存して公開URLを返す。keyPrefixは"services/photos"など。
	Save(ctx context.Context, keyPrefix, filename, contentType string, r io.Reader, size int64) (string, error)
}

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// MinIOクライアントを作ってバケットの存在を確認する。
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, secure bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio connect: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// 衝突しないように元のファイル名の前にuuidを付けて保存する。
func (s *MinioStore) Save(ctx context.Context, keyPrefix, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := path.Join(keyPrefix, uuid.NewString()+"_"+path.Base(filename))

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}
