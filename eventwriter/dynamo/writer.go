// Package dynamo provides a DynamoDB-backed EventWriter.
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/terraskye/dispatch"
)

var _ dispatch.EventWriter = (*Writer)(nil)

// PutItemAPI is the slice of the DynamoDB client the writer needs. Satisfied
// by *dynamodb.Client; narrow so tests can stub it.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// storedEvent is the item layout in the events table.
type storedEvent struct {
	EventID   string    `dynamodbav:"event_id"`
	Name      string    `dynamodbav:"name"`
	Data      []byte    `dynamodbav:"data"`
	WrittenAt time.Time `dynamodbav:"written_at"`
}

// Writer puts one item per event into a DynamoDB table keyed by a random
// event id.
type Writer struct {
	client PutItemAPI
	table  string
}

// New creates a Writer targeting the given table.
func New(client PutItemAPI, table string) *Writer {
	return &Writer{client: client, table: table}
}

// Write implements dispatch.EventWriter.
func (w *Writer) Write(ctx context.Context, event dispatch.SerializedEvent) error {
	stored := storedEvent{
		EventID:   uuid.NewString(),
		Name:      event.Name(),
		Data:      event.Data(),
		WrittenAt: time.Now(),
	}

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return fmt.Errorf("marshal event %q: %w", event.Name(), err)
	}

	_, err = w.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(w.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put event %q: %w", event.Name(), err)
	}

	return nil
}
