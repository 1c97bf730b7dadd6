package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxLabels     = 10
	minConfidence = 70
)

type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Labeler names what Rekognition sees in an image already stored in S3.
type Labeler struct {
	api    DetectLabelsAPI
	bucket string
}

func NewLabeler(api DetectLabelsAPI, bucket string) *Labeler {
	return &Labeler{api: api, bucket: bucket}
}

// Labels returns up to ten label names detected with at least 70% confidence.
func (l *Labeler) Labels(ctx context.Context, key string) ([]string, error) {
	out, err := l.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(l.bucket),
				Name:   aws.String(key),
			},
		},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels %s: %w", key, err)
	}

	names := make([]string, 0, len(out.Labels))
	for _, lbl := range out.Labels {
		if lbl.Name != nil && *lbl.Name != "" {
			names = append(names, *lbl.Name)
		}
	}
	return names, nil
}
