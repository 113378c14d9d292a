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
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/goccy/go-json"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/yelpify/yelpify/base/log"
	"go.uber.org/zap"
)

// Format is a tabular file format recognised by the loader.
type Format string

const (
	CSV       Format = "csv"
	JSONLines Format = "json"
	Parquet   Format = "parquet"
)

// DetectFormat finds the format by looking for an extension anywhere in the
// location, so that "data.csv?dl=1" is a CSV file.
func DetectFormat(location string) (Format, error) {
	switch {
	case strings.Contains(location, ".csv"):
		return CSV, nil
	case strings.Contains(location, ".json"):
		return JSONLines, nil
	case strings.Contains(location, ".parquet"):
		return Parquet, nil
	default:
		return "", errors.NotSupportedf("file type of %q", location)
	}
}

// Loader reads tables from local paths or http(s) URLs.
type Loader struct {
	Client       *http.Client
	ShowProgress bool
}

func NewLoader() *Loader {
	return &Loader{Client: http.DefaultClient, ShowProgress: true}
}

// Load reads the whole resource into memory and parses it.
func (l *Loader) Load(ctx context.Context, location string) (*Frame, error) {
	format, err := DetectFormat(location)
	if err != nil {
		return nil, err
	}
	log.Logger().Info("load table",
		zap.String("location", log.RedactURL(location)),
		zap.String("format", string(format)))
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var frame *Frame
	switch format {
	case CSV:
		frame, err = parseCSV(data)
	case JSONLines:
		frame, err = parseJSONLines(data)
	case Parquet:
		frame, err = parseParquet(ctx, data)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "parse %v", log.RedactURL(location))
	}
	log.Logger().Info("table loaded",
		zap.Int("n_rows", frame.Len()),
		zap.Strings("columns", frame.Columns()))
	return frame, nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		data, err := os.ReadFile(location)
		return data, errors.Trace(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("download %v: %v", log.RedactURL(location), resp.Status)
	}
	var bar *progressbar.ProgressBar
	if l.ShowProgress {
		bar = progressbar.DefaultBytes(resp.ContentLength, "Downloading input data")
	} else {
		bar = progressbar.DefaultBytesSilent(resp.ContentLength, "Downloading input data")
	}
	pbReader := progressbar.NewReader(resp.Body, bar)
	data, err := io.ReadAll(&pbReader)
	if err != nil {
		return nil, errors.Trace(err)
	}
	_ = bar.Finish()
	return data, nil
}

func parseCSV(data []byte) (*Frame, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NotValidf("empty csv")
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	frame, err := NewFrame(header...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		if err = frame.Append(record...); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return frame, nil
}

// parseJSONLines reads one object per line. Columns are the union of keys,
// sorted within each record and ordered by first appearance across records.
func parseJSONLines(data []byte) (*Frame, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var (
		records []map[string]any
		columns []string
		seen    = make(map[string]struct{})
	)
	for {
		var record map[string]any
		if err := decoder.Decode(&record); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		keys := lo.Keys(record)
		slices.Sort(keys)
		for _, key := range keys {
			if _, exist := seen[key]; !exist {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
		}
		records = append(records, record)
	}
	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, record := range records {
		cells := make([]string, len(columns))
		for j, column := range columns {
			if cells[j], err = formatJSONValue(record[column]); err != nil {
				return nil, errors.Trace(err)
			}
		}
		if err = frame.Append(cells...); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return frame, nil
}

func formatJSONValue(v any) (string, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case json.Number:
		return typed.String(), nil
	case bool:
		return strconv.FormatBool(typed), nil
	default:
		b, err := json.Marshal(typed)
		return string(b), err
	}
}

func parseParquet(ctx context.Context, data []byte) (*Frame, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rdr.Close()
	fileReader, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{BatchSize: 1 << 14}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Trace(err)
	}
	table, err := fileReader.ReadTable(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer table.Release()

	columns := make([]string, table.NumCols())
	rows := make([][]string, table.NumRows())
	for i := range rows {
		rows[i] = make([]string, len(columns))
	}
	for j := range columns {
		column := table.Column(j)
		columns[j] = column.Name()
		offset := 0
		for _, chunk := range column.Data().Chunks() {
			for k := 0; k < chunk.Len(); k++ {
				if !chunk.IsNull(k) {
					rows[offset+k][j] = chunk.ValueStr(k)
				}
			}
			offset += chunk.Len()
		}
	}
	frame, err := NewFrame(columns...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, row := range rows {
		if err = frame.Append(row...); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return frame, nil
}
