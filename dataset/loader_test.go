// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat("https://www.dropbox.com/s/x/review.csv?dl=1")
	assert.NoError(t, err)
	assert.Equal(t, CSV, format)
	format, err = DetectFormat("user.json")
	assert.NoError(t, err)
	assert.Equal(t, JSONLines, format)
	format, err = DetectFormat("/tmp/data_clean.parquet")
	assert.NoError(t, err)
	assert.Equal(t, Parquet, format)
	_, err = DetectFormat("data.xlsx")
	assert.True(t, errors.Is(err, errors.NotSupported))

	_, err = NewLoader().Load(context.Background(), "data.xlsx")
	assert.True(t, errors.Is(err, errors.NotSupported))
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.csv")
	content := "user_id,business_id,stars,text\n" +
		"u1,b1,5,\"multi\nline\"\n" +
		"u2,b2,3,plain\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	frame, err := NewLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "business_id", "stars", "text"}, frame.Columns())
	assert.Equal(t, []string{"u1", "b1", "5", "multi\nline"}, frame.Row(0))
	assert.Equal(t, 2, frame.Len())

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = NewLoader().Load(context.Background(), empty)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoadJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "business.json")
	content := `{"business_id":"b1","name":"Cafe","stars":4.5,"is_open":true,"attributes":{"WiFi":"free"}}` + "\n" +
		`{"business_id":"b2","name":"Diner","stars":3,"attributes":null,"city":"Tempe"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	frame, err := NewLoader().Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"attributes", "business_id", "is_open", "name", "stars", "city"}, frame.Columns())
	assert.Equal(t, []string{`{"WiFi":"free"}`, "b1", "true", "Cafe", "4.5", ""}, frame.Row(0))
	assert.Equal(t, []string{"", "b2", "", "Diner", "3", "Tempe"}, frame.Row(1))

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{\"a\":"), 0644))
	_, err = NewLoader().Load(context.Background(), broken)
	assert.Error(t, err)
}

func writeParquet(t *testing.T) []byte {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "user_id", Type: arrow.BinaryTypes.String},
		{Name: "stars", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()
	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"u1", "u2", "u3"}, nil)
	builder.Field(1).(*array.Float64Builder).AppendValues([]float64{4.5, 0, 2}, []bool{true, false, true})
	record := builder.NewRecord()
	defer record.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()
	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(table, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestLoadParquet(t *testing.T) {
	data := writeParquet(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data_clean.parquet" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer server.Close()

	loader := NewLoader()
	loader.ShowProgress = false
	frame, err := loader.Load(context.Background(), server.URL+"/data_clean.parquet?dl=1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_id", "stars"}, frame.Columns())
	assert.Equal(t, 3, frame.Len())
	assert.Equal(t, []string{"u1", "4.5"}, frame.Row(0))
	assert.Equal(t, []string{"u2", ""}, frame.Row(1))
	assert.Equal(t, []string{"u3", "2"}, frame.Row(2))

	_, err = loader.Load(context.Background(), server.URL+"/other.parquet")
	assert.Error(t, err)
}
