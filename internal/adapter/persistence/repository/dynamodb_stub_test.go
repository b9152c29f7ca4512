package repository

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// attr is a DynamoDB attribute value in wire form, e.g. {"S": "x"} or {"N": "1"}.
type attr = map[string]any

type stubRequest struct {
	TableName                 string
	Key                       map[string]attr
	Item                      map[string]attr
	ConditionExpression       string
	UpdateExpression          string
	ProjectionExpression      string
	FilterExpression          string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]attr
	ExclusiveStartKey         map[string]attr
	ReturnValues              string
}

// dynamoStub is an in-memory table keyed by the numeric "id" attribute. It
// understands the expression shapes the quotation repository sends.
type dynamoStub struct {
	t        *testing.T
	mu       sync.Mutex
	items    map[int64]map[string]attr
	pageSize int
	calls    map[string]int
	requests map[string][]stubRequest
}

func newDynamoStub(t *testing.T) *dynamoStub {
	return &dynamoStub{
		t:        t,
		items:    map[int64]map[string]attr{},
		pageSize: 2,
		calls:    map[string]int{},
		requests: map[string][]stubRequest{},
	}
}

func newDynamoRepo(t *testing.T) (*QuotationDynamoRepository, *dynamoStub) {
	t.Helper()
	stub := newDynamoStub(t)
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	ddb := dynamodb.New(dynamodb.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
	return NewQuotationDynamoRepository(ddb, ""), stub
}

func (s *dynamoStub) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *dynamoStub) last(op string) stubRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := s.requests[op]
	if len(reqs) == 0 {
		s.t.Fatalf("no %s request recorded", op)
	}
	return reqs[len(reqs)-1]
}

func (s *dynamoStub) item(id int64) map[string]attr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

func (s *dynamoStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := strings.TrimPrefix(r.Header.Get("X-Amz-Target"), "DynamoDB_20120810.")
	var req stubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "SerializationException", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	s.requests[op] = append(s.requests[op], req)

	if req.TableName != defaultQuotationsTableName {
		s.fail(w, "ResourceNotFoundException", "Requested resource not found")
		return
	}

	switch op {
	case "PutItem":
		s.putItem(w, req)
	case "GetItem":
		s.getItem(w, req)
	case "UpdateItem":
		s.updateItem(w, req)
	case "DeleteItem":
		s.deleteItem(w, req)
	case "Scan":
		s.scan(w, req)
	default:
		s.fail(w, "UnknownOperationException", op)
	}
}

func (s *dynamoStub) putItem(w http.ResponseWriter, req stubRequest) {
	id := idOf(s.t, req.Item)
	if _, ok := s.items[id]; ok && strings.HasPrefix(req.ConditionExpression, "attribute_not_exists") {
		s.fail(w, "ConditionalCheckFailedException", "The conditional request failed")
		return
	}
	s.items[id] = req.Item
	s.write(w, map[string]any{})
}

func (s *dynamoStub) getItem(w http.ResponseWriter, req stubRequest) {
	it, ok := s.items[idOf(s.t, req.Key)]
	if !ok {
		s.write(w, map[string]any{})
		return
	}
	s.write(w, map[string]any{"Item": project(it, req.ProjectionExpression, req.ExpressionAttributeNames)})
}

func (s *dynamoStub) updateItem(w http.ResponseWriter, req stubRequest) {
	id := idOf(s.t, req.Key)
	it, exists := s.items[id]
	if !exists && strings.HasPrefix(req.ConditionExpression, "attribute_exists") {
		s.fail(w, "ConditionalCheckFailedException", "The conditional request failed")
		return
	}
	if !exists {
		it = map[string]attr{"id": req.Key["id"]}
	}
	name := func(n string) string {
		if v, ok := req.ExpressionAttributeNames[n]; ok {
			return v
		}
		return n
	}

	var touched []string
	expr := req.UpdateExpression
	switch {
	case strings.HasPrefix(expr, "ADD "):
		parts := strings.Fields(strings.TrimPrefix(expr, "ADD "))
		field := name(parts[0])
		cur := numberOf(s.t, it[field])
		inc := numberOf(s.t, req.ExpressionAttributeValues[parts[1]])
		it[field] = attr{"N": strconv.FormatInt(cur+inc, 10)}
		touched = append(touched, field)
	case strings.HasPrefix(expr, "SET "):
		setPart, removePart, _ := strings.Cut(strings.TrimPrefix(expr, "SET "), " REMOVE ")
		for _, clause := range strings.Split(setPart, ", ") {
			lhs, rhs, _ := strings.Cut(clause, " = ")
			it[name(lhs)] = req.ExpressionAttributeValues[rhs]
			touched = append(touched, name(lhs))
		}
		if removePart != "" {
			for _, n := range strings.Split(removePart, ", ") {
				delete(it, name(n))
			}
		}
	default:
		s.fail(w, "ValidationException", "unsupported update expression "+expr)
		return
	}
	s.items[id] = it

	out := map[string]any{}
	switch req.ReturnValues {
	case "ALL_NEW":
		out["Attributes"] = it
	case "UPDATED_NEW":
		attrs := map[string]attr{}
		for _, n := range touched {
			attrs[n] = it[n]
		}
		out["Attributes"] = attrs
	}
	s.write(w, out)
}

func (s *dynamoStub) deleteItem(w http.ResponseWriter, req stubRequest) {
	id := idOf(s.t, req.Key)
	old, ok := s.items[id]
	delete(s.items, id)
	if ok && req.ReturnValues == "ALL_OLD" {
		s.write(w, map[string]any{"Attributes": old})
		return
	}
	s.write(w, map[string]any{})
}

// scan walks ids in descending order, pageSize items per page, and applies
// the filter after paging the way DynamoDB does.
func (s *dynamoStub) scan(w http.ResponseWriter, req stubRequest) {
	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	start := 0
	if req.ExclusiveStartKey != nil {
		after := idOf(s.t, req.ExclusiveStartKey)
		for i, id := range ids {
			if id == after {
				start = i + 1
				break
			}
		}
	}
	end := start + s.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	var minID int64 = -1 << 63
	if req.FilterExpression != "" {
		f := strings.Fields(req.FilterExpression)
		if len(f) != 3 || f[1] != ">" || req.ExpressionAttributeNames[f[0]] != "id" {
			s.fail(w, "ValidationException", "unsupported filter "+req.FilterExpression)
			return
		}
		minID = numberOf(s.t, req.ExpressionAttributeValues[f[2]])
	}

	items := []map[string]attr{}
	for _, id := range ids[start:end] {
		if id > minID {
			items = append(items, project(s.items[id], req.ProjectionExpression, req.ExpressionAttributeNames))
		}
	}
	out := map[string]any{"Items": items, "Count": len(items), "ScannedCount": end - start}
	if end < len(ids) {
		out["LastEvaluatedKey"] = map[string]attr{"id": {"N": strconv.FormatInt(ids[end-1], 10)}}
	}
	s.write(w, out)
}

func (s *dynamoStub) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.t.Errorf("encode response: %v", err)
	}
}

func (s *dynamoStub) fail(w http.ResponseWriter, code, msg string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"__type":  "com.amazonaws.dynamodb.v20120810#" + code,
		"message": msg,
	})
}

func project(it map[string]attr, projection string, names map[string]string) map[string]attr {
	if projection == "" {
		return it
	}
	out := map[string]attr{}
	for _, p := range strings.Split(projection, ", ") {
		n := p
		if v, ok := names[p]; ok {
			n = v
		}
		if v, ok := it[n]; ok {
			out[n] = v
		}
	}
	return out
}

func idOf(t *testing.T, m map[string]attr) int64 {
	return numberOf(t, m["id"])
}

func numberOf(t *testing.T, a attr) int64 {
	if a == nil {
		return 0
	}
	n, ok := a["N"].(string)
	if !ok {
		t.Errorf("expected number attribute, got %v", a)
		return 0
	}
	v, err := strconv.ParseInt(n, 10, 64)
	if err != nil {
		t.Errorf("parse number %q: %v", n, err)
	}
	return v
}
