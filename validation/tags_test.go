package validation

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressDTO struct {
	City string `json:"city" validate:"required"`
	Zip  string `json:"zip,omitempty" pattern:"^[0-9]{5}$"`
}

type tagDTO struct {
	Label string `json:"label" validate:"required"`
}

type createUserRequest struct {
	ID        string         `param:"id"`
	Page      int            `query:"page" validate:"required"`
	Verbose   bool           `query:"verbose"`
	Token     string         `header:"Authorization"`
	Name      string         `json:"name" validate:"required,min=2" pattern:"^[a-z]+$"`
	Age       int            `json:"age" validate:"omitempty,required"`
	Admin     bool           `json:"admin"`
	Address   *addressDTO    `json:"address" validate:"required"`
	Tags      []tagDTO       `json:"tags"`
	Aliases   []string       `json:"aliases"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
	Ignored   string         `json:"-"`
	NoTag     float64
	internal  string
}

func findField(fields []Field, name string) *Field {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func TestFieldsForBody(t *testing.T) {
	fields, err := FieldsFor(reflect.TypeOf(createUserRequest{}), SourceBody)
	require.NoError(t, err)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "age", "admin", "address", "tags", "aliases", "meta", "created_at", "NoTag"}, names)

	name := findField(fields, "name")
	require.NotNil(t, name)
	assert.Equal(t, TypeString, name.Type)
	assert.True(t, name.Required)
	require.NotNil(t, name.Match)
	assert.True(t, name.Match.MatchString("abc"))

	age := findField(fields, "age")
	require.NotNil(t, age)
	assert.Equal(t, TypeNumber, age.Type)
	assert.False(t, age.Required, "omitempty wins over required")

	address := findField(fields, "address")
	require.NotNil(t, address)
	assert.Equal(t, TypeObject, address.Type)
	require.Len(t, address.Nested, 2)
	assert.True(t, address.Nested[0].Required)

	tags := findField(fields, "tags")
	require.NotNil(t, tags)
	assert.Equal(t, TypeArray, tags.Type)
	require.Len(t, tags.Nested, 1)
	assert.Equal(t, "label", tags.Nested[0].Name)

	aliases := findField(fields, "aliases")
	require.NotNil(t, aliases)
	assert.Nil(t, aliases.Nested)

	assert.Equal(t, TypeObject, findField(fields, "meta").Type)
	assert.Equal(t, TypeString, findField(fields, "created_at").Type)
	assert.Equal(t, TypeNumber, findField(fields, "NoTag").Type)
}

func TestFieldsForQuery(t *testing.T) {
	fields, err := FieldsFor(reflect.TypeOf(&createUserRequest{}), SourceQuery)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, Field{Name: "page", Type: TypeNumber, Required: true}, fields[0])
	assert.Equal(t, Field{Name: "verbose", Type: TypeBoolean}, fields[1])
}

func TestFieldsForNonStruct(t *testing.T) {
	fields, err := FieldsFor(reflect.TypeOf(""), SourceBody)
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = FieldsFor(nil, SourceBody)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestFieldsForInvalidPattern(t *testing.T) {
	type bad struct {
		Code string `json:"code" pattern:"(["`
	}

	_, err := FieldsFor(reflect.TypeOf(bad{}), SourceBody)
	assert.ErrorContains(t, err, "invalid pattern")
	assert.Panics(t, func() { FieldsOf[bad](SourceBody) })
}

func TestFieldsOfSelfReferencingType(t *testing.T) {
	type node struct {
		Name     string `json:"name" validate:"required"`
		Children []node `json:"children"`
	}

	fields := FieldsOf[node](SourceBody)
	require.Len(t, fields, 2)
	assert.Equal(t, TypeArray, fields[1].Type)
	assert.Empty(t, fields[1].Nested)
}

type treeNode struct {
	Value int       `json:"value" validate:"required"`
	Left  *treeNode `json:"left"`
	Right *treeNode `json:"right"`
}

func TestFieldsOfTypeReferencingItselfTwice(t *testing.T) {
	done := make(chan []Field, 1)
	go func() { done <- FieldsOf[treeNode](SourceBody) }()

	var fields []Field
	select {
	case fields = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("FieldsOf[treeNode] did not return")
	}

	require.Len(t, fields, 3)
	for _, f := range fields[1:] {
		assert.Equal(t, TypeObject, f.Type)
		assert.Empty(t, f.Nested, f.Name)
	}
}

func TestFieldsForExpandsRepeatedSiblingTypes(t *testing.T) {
	type pair struct {
		From addressDTO `json:"from"`
		To   addressDTO `json:"to"`
	}

	fields := FieldsOf[pair](SourceBody)
	require.Len(t, fields, 2)
	assert.Len(t, fields[0].Nested, 2)
	assert.Len(t, fields[1].Nested, 2)
}

func TestDerivedFieldsValidateBody(t *testing.T) {
	fields := FieldsOf[createUserRequest](SourceBody)

	body := map[string]any{
		"name":    "alice",
		"address": map[string]any{"city": "Lisbon", "zip": "12345"},
		"tags":    []any{map[string]any{"label": "x"}},
	}
	assert.NoError(t, ValidateBody(body, fields))

	body["address"] = map[string]any{"zip": "12345"}
	assert.Equal(t, "Missing required field: city", msg(ValidateBody(body, fields)))
}
