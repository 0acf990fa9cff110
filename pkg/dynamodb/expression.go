package dynamodb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SetExpression is a marshalled "SET a = :v0, b = :v1" update.
type SetExpression struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// BuildSet turns a field map into a SET update expression. Attribute names are
// always aliased so reserved words ("name", "status") are safe. Keys are
// emitted in sorted order so the expression is deterministic.
func BuildSet(updates map[string]interface{}) (*SetExpression, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	out := &SetExpression{
		Names:  make(map[string]string, len(fields)),
		Values: make(map[string]types.AttributeValue, len(fields)),
	}
	for i, f := range fields {
		namePh := fmt.Sprintf("#f%d", i)
		valPh := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(updates[f])
		if err != nil {
			return nil, fmt.Errorf("marshal update value %s: %w", f, err)
		}
		out.Names[namePh] = f
		out.Values[valPh] = av
		parts = append(parts, namePh+" = "+valPh)
	}
	out.Expression = "SET " + strings.Join(parts, ", ")
	return out, nil
}

// Key marshals a primary key given as alternating name/value pairs.
func Key(pairs ...string) map[string]types.AttributeValue {
	key := make(map[string]types.AttributeValue, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key[pairs[i]] = &types.AttributeValueMemberS{Value: pairs[i+1]}
	}
	return key
}
