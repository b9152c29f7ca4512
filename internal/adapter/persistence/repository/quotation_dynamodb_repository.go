package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"securequote/internal/domain/entities"
	"securequote/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotationsTableName = "quotations"
	// counterID is the reserved key holding the id sequence. Real quotations
	// start at 1.
	counterID = 0
)

type quotationItem struct {
	ID                   int64   `dynamodbav:"id"`
	ClientName           string  `dynamodbav:"client_name,omitempty"`
	ReferenceNumber      string  `dynamodbav:"reference_number,omitempty"`
	Status               string  `dynamodbav:"status,omitempty"`
	Title                string  `dynamodbav:"title,omitempty"`
	Description          *string `dynamodbav:"description,omitempty"`
	BuyPrice             string  `dynamodbav:"buy_price,omitempty"`
	SalePrice            string  `dynamodbav:"sale_price,omitempty"`
	Margin               string  `dynamodbav:"margin,omitempty"`
	Profit               string  `dynamodbav:"profit,omitempty"`
	CostBasis            string  `dynamodbav:"cost_basis,omitempty"`
	MarkupPercentage     string  `dynamodbav:"markup_percentage,omitempty"`
	InternalNotes        *string `dynamodbav:"internal_notes,omitempty"`
	RiskLevel            string  `dynamodbav:"risk_level,omitempty"`
	ConfidentialityLevel string  `dynamodbav:"confidentiality_level,omitempty"`
	CreatedAt            string  `dynamodbav:"created_at,omitempty"`
	UpdatedAt            string  `dynamodbav:"updated_at,omitempty"`
	ExpiresAt            *string `dynamodbav:"expires_at,omitempty"`
}

// QuotationDynamoRepository persists quotations in DynamoDB.
//
// Table requirements:
//   - PK: id (number)
//
// Money is stored as its decimal string so no digit is lost in transit.
// Ids come from an atomic counter kept in the item with id 0.
type QuotationDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuotationRepository = (*QuotationDynamoRepository)(nil)

func NewQuotationDynamoRepository(ddb *dynamodb.Client, tableName string) *QuotationDynamoRepository {
	if tableName == "" {
		tableName = defaultQuotationsTableName
	}
	return &QuotationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuotationDynamoRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return entities.Quotation{}, err
	}
	q.ID = id

	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationDynamoRepository) GetByID(ctx context.Context, id int64) (*entities.Quotation, error) {
	it, err := r.getItem(ctx, id, nil)
	if err != nil || it == nil {
		return nil, err
	}
	q := fromQuotationItem(*it)
	return &q, nil
}

func (r *QuotationDynamoRepository) GetSensitiveByID(ctx context.Context, id int64) (*entities.SensitiveQuotation, error) {
	it, err := r.getItem(ctx, id, sensitiveColumns)
	if err != nil || it == nil {
		return nil, err
	}
	q := fromQuotationItem(*it)
	s := q.Sensitive()
	return &s, nil
}

func (r *QuotationDynamoRepository) ListPublic(ctx context.Context) ([]entities.PublicQuotation, error) {
	projection, names := projectionOf(publicColumns)
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String(projection),
		FilterExpression:         aws.String("#id > :counter"),
		ExpressionAttributeNames: names,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":counter": numberAttr(counterID),
		},
		ConsistentRead: aws.Bool(true),
	})

	items := []entities.PublicQuotation{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []quotationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		for _, it := range batch {
			items = append(items, fromQuotationItem(it).Public())
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *QuotationDynamoRepository) Update(ctx context.Context, id int64, patch entities.QuotationPatch, updatedAt time.Time) (*entities.Quotation, error) {
	if id == counterID {
		return nil, nil
	}
	updateExpr, values, names := buildUpdateExpression(patch, updatedAt)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       keyOf(id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return nil, err
	}
	q := fromQuotationItem(it)
	return &q, nil
}

func (r *QuotationDynamoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if id == counterID {
		return false, nil
	}
	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          keyOf(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func (r *QuotationDynamoRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              keyOf(counterID),
		UpdateExpression: aws.String("ADD #seq :one"),
		ExpressionAttributeNames: map[string]string{
			"#seq": "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": numberAttr(1),
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	var seq struct {
		Seq int64 `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &seq); err != nil {
		return 0, err
	}
	if seq.Seq <= counterID {
		return 0, fmt.Errorf("invalid id sequence value %d", seq.Seq)
	}
	return seq.Seq, nil
}

func (r *QuotationDynamoRepository) getItem(ctx context.Context, id int64, columns []string) (*quotationItem, error) {
	if id == counterID {
		return nil, nil
	}
	in := &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	}
	if len(columns) > 0 {
		projection, names := projectionOf(columns)
		in.ProjectionExpression = aws.String(projection)
		in.ExpressionAttributeNames = names
	}

	out, err := r.ddb.GetItem(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// buildUpdateExpression turns a sparse patch into SET/REMOVE clauses.
// Nullable fields set to null are removed from the item.
func buildUpdateExpression(p entities.QuotationPatch, updatedAt time.Time) (string, map[string]types.AttributeValue, map[string]string) {
	var sets, removes []string
	values := map[string]types.AttributeValue{}
	names := map[string]string{}

	set := func(attr, value string) {
		names["#"+attr] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: value}
		sets = append(sets, fmt.Sprintf("#%s = :%s", attr, attr))
	}
	setNullable := func(attr string, value *string) {
		if value == nil {
			names["#"+attr] = attr
			removes = append(removes, "#"+attr)
			return
		}
		set(attr, *value)
	}

	if p.ClientName != nil {
		set("client_name", *p.ClientName)
	}
	if p.ReferenceNumber != nil {
		set("reference_number", *p.ReferenceNumber)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description.Set {
		setNullable("description", p.Description.Value)
	}
	if p.BuyPrice != nil {
		set("buy_price", p.BuyPrice.String())
	}
	if p.SalePrice != nil {
		set("sale_price", p.SalePrice.String())
	}
	if p.Margin != nil {
		set("margin", p.Margin.String())
	}
	if p.Profit != nil {
		set("profit", p.Profit.String())
	}
	if p.CostBasis != nil {
		set("cost_basis", p.CostBasis.String())
	}
	if p.MarkupPercentage != nil {
		set("markup_percentage", p.MarkupPercentage.String())
	}
	if p.InternalNotes.Set {
		setNullable("internal_notes", p.InternalNotes.Value)
	}
	if p.RiskLevel != nil {
		set("risk_level", string(*p.RiskLevel))
	}
	if p.ConfidentialityLevel != nil {
		set("confidentiality_level", string(*p.ConfidentialityLevel))
	}
	if p.ExpiresAt.Set {
		setNullable("expires_at", formatTimePtr(p.ExpiresAt.Value))
	}
	set("updated_at", formatTime(updatedAt))

	expr := "SET " + strings.Join(sets, ", ")
	if len(removes) > 0 {
		expr += " REMOVE " + strings.Join(removes, ", ")
	}
	return expr, values, names
}

func projectionOf(columns []string) (string, map[string]string) {
	names := make(map[string]string, len(columns))
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		names["#"+c] = c
		parts = append(parts, "#"+c)
	}
	return strings.Join(parts, ", "), names
}

func keyOf(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": numberAttr(id)}
}

func numberAttr(v int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func toQuotationItem(q entities.Quotation) quotationItem {
	return quotationItem{
		ID:                   q.ID,
		ClientName:           q.ClientName,
		ReferenceNumber:      q.ReferenceNumber,
		Status:               string(q.Status),
		Title:                q.Title,
		Description:          q.Description,
		BuyPrice:             q.BuyPrice.String(),
		SalePrice:            q.SalePrice.String(),
		Margin:               q.Margin.String(),
		Profit:               q.Profit.String(),
		CostBasis:            q.CostBasis.String(),
		MarkupPercentage:     q.MarkupPercentage.String(),
		InternalNotes:        q.InternalNotes,
		RiskLevel:            string(q.RiskLevel),
		ConfidentialityLevel: string(q.ConfidentialityLevel),
		CreatedAt:            formatTime(q.CreatedAt),
		UpdatedAt:            formatTime(q.UpdatedAt),
		ExpiresAt:            formatTimePtr(q.ExpiresAt),
	}
}

func fromQuotationItem(it quotationItem) entities.Quotation {
	return entities.Quotation{
		ID:                   it.ID,
		ClientName:           it.ClientName,
		ReferenceNumber:      it.ReferenceNumber,
		Status:               entities.QuotationStatus(it.Status),
		Title:                it.Title,
		Description:          it.Description,
		BuyPrice:             parseDecimal(it.BuyPrice),
		SalePrice:            parseDecimal(it.SalePrice),
		Margin:               parseDecimal(it.Margin),
		Profit:               parseDecimal(it.Profit),
		CostBasis:            parseDecimal(it.CostBasis),
		MarkupPercentage:     parseDecimal(it.MarkupPercentage),
		InternalNotes:        it.InternalNotes,
		RiskLevel:            entities.RiskLevel(it.RiskLevel),
		ConfidentialityLevel: entities.ConfidentialityLevel(it.ConfidentialityLevel),
		CreatedAt:            parseTime(it.CreatedAt),
		UpdatedAt:            parseTime(it.UpdatedAt),
		ExpiresAt:            parseTimePtr(it.ExpiresAt),
	}
}
