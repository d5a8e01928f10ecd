package eventsink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophcapsule/internal/cborx"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

// objectPutter is the part of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Settings struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
}

// S3Sink archives each event as one CBOR object, keyed by sequence so a
// bucket listing replays the journal in order.
type S3Sink struct {
	client objectPutter
	bucket string
}

func NewS3Sink(ctx context.Context, st S3Settings) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(st.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(st.User, st.Password, "")))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Sink{client: client, bucket: st.Bucket}, nil
}

func ObjectKey(ev *models.Event) string {
	return fmt.Sprintf("events/%020d-%s.cbor", ev.Seq, ev.Kind)
}

func (s *S3Sink) Publish(ctx context.Context, ev *models.Event) error {
	body, err := cborx.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(ev)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/cbor"),
	})
	if err != nil {
		return fmt.Errorf("archive event %d: %w", ev.Seq, err)
	}
	return nil
}
