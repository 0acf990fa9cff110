// Package dynamotest provides a scriptable fake of the DynamoDB API subset
// used by repositories.
package dynamotest

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Fake records every call and delegates to the matching Fn field when set.
// Unset functions return empty outputs.
type Fake struct {
	mu sync.Mutex

	GetItemFn            func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItemFn            func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	UpdateItemFn         func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	DeleteItemFn         func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	QueryFn              func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	ScanFn               func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	BatchWriteItemFn     func(*dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItemsFn func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)

	Gets     []*dynamodb.GetItemInput
	Puts     []*dynamodb.PutItemInput
	Updates  []*dynamodb.UpdateItemInput
	Deletes  []*dynamodb.DeleteItemInput
	Queries  []*dynamodb.QueryInput
	Scans    []*dynamodb.ScanInput
	Batches  []*dynamodb.BatchWriteItemInput
	Transact []*dynamodb.TransactWriteItemsInput
}

func (f *Fake) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	f.Gets = append(f.Gets, in)
	f.mu.Unlock()
	if f.GetItemFn != nil {
		return f.GetItemFn(in)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *Fake) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	f.Puts = append(f.Puts, in)
	f.mu.Unlock()
	if f.PutItemFn != nil {
		return f.PutItemFn(in)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *Fake) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	f.Updates = append(f.Updates, in)
	f.mu.Unlock()
	if f.UpdateItemFn != nil {
		return f.UpdateItemFn(in)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *Fake) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	f.Deletes = append(f.Deletes, in)
	f.mu.Unlock()
	if f.DeleteItemFn != nil {
		return f.DeleteItemFn(in)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *Fake) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, in)
	f.mu.Unlock()
	if f.QueryFn != nil {
		return f.QueryFn(in)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *Fake) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	f.Scans = append(f.Scans, in)
	f.mu.Unlock()
	if f.ScanFn != nil {
		return f.ScanFn(in)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *Fake) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	f.Batches = append(f.Batches, in)
	f.mu.Unlock()
	if f.BatchWriteItemFn != nil {
		return f.BatchWriteItemFn(in)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *Fake) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	f.Transact = append(f.Transact, in)
	f.mu.Unlock()
	if f.TransactWriteItemsFn != nil {
		return f.TransactWriteItemsFn(in)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
