package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-payoff/internal/projection"
	"github.com/iwvelando/mortgage-payoff/pkg/testutil"
)

func testReport(t *testing.T, includeSchedule bool) projection.Report {
	t.Helper()
	conf := testutil.Configuration()
	conf.IncludeSchedule = includeSchedule
	report, err := projection.GetProjectionWithFixedTime(nil, conf, testutil.FixedNow)
	if err != nil {
		t.Fatalf("GetProjectionWithFixedTime() error = %v", err)
	}
	return report
}

func TestPrettyFormat(t *testing.T) {
	report := testReport(t, false)
	report.Warnings = []string{"Test warning"}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, report); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Mortgage payoff projection ---",
		"Balance $350,000 at 3.75% over 30 years, paying $1,850.00 per month from March 15, 2024",
		"Original payoff: March 15, 2054 | total interest $316,000",
		"With $100 extra per month",
		"--- Scenarios ---",
		"Conservative",
		"Maximum",
		"Round-ups: $0.81",
		"auto-transfer ready",
		"--- Warnings ---",
		"- Test warning",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
	if strings.Contains(output, "--- Schedule ---") {
		t.Error("PrettyFormat printed a schedule that was not requested")
	}
}

func TestPrettyFormatSchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testReport(t, true)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{"--- Schedule ---", "April 15, 2024", "$1,093.75", "$856.25", "$349,143.75"} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestCsvFormatScenarios(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, testReport(t, false)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	// header, baseline, plan and four presets
	if len(records) != 7 {
		t.Fatalf("got %d records, expected 7", len(records))
	}
	if records[0][0] != "scenario" {
		t.Errorf("header starts with %q, expected scenario", records[0][0])
	}
	if records[1][0] != "Baseline" || records[1][1] != "0.00" {
		t.Errorf("baseline row = %v", records[1])
	}
	if records[2][0] != "Plan" || records[2][1] != "100.00" {
		t.Errorf("plan row = %v", records[2])
	}
	if records[3][0] != "Conservative" {
		t.Errorf("first scenario row = %v", records[3])
	}

	report := testReport(t, false)
	maximum := testutil.FindScenario(report.Scenarios, "Maximum")
	if maximum == nil {
		t.Fatal("report has no Maximum scenario")
	}
	if records[6][3] != strconv.Itoa(maximum.Stats.TotalPayments) {
		t.Errorf("Maximum payments = %q, expected %d", records[6][3], maximum.Stats.TotalPayments)
	}
}

func TestCsvFormatSchedule(t *testing.T) {
	report := testReport(t, true)

	var buf bytes.Buffer
	if err := CsvFormat(&buf, report); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != len(report.Schedule)+1 {
		t.Fatalf("got %d records, expected %d", len(records), len(report.Schedule)+1)
	}

	expected := []string{"1", "2024-04-15", "1950.00", "856.25", "1093.75", "349143.75"}
	for i, want := range expected {
		if records[1][i] != want {
			t.Errorf("first row column %d = %q, expected %q", i, records[1][i], want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testReport(t, false)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded struct {
		Baseline struct {
			OriginalTotalInterest string `json:"originalTotalInterest"`
		} `json:"baseline"`
		Scenarios []struct {
			Label string `json:"label"`
		} `json:"scenarios"`
		RoundUps string `json:"roundUps"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Baseline.OriginalTotalInterest != "316000" {
		t.Errorf("originalTotalInterest = %q, expected 316000", decoded.Baseline.OriginalTotalInterest)
	}
	if len(decoded.Scenarios) != 4 {
		t.Errorf("got %d scenarios, expected 4", len(decoded.Scenarios))
	}
	if decoded.RoundUps != "0.81" {
		t.Errorf("roundUps = %q, expected 0.81", decoded.RoundUps)
	}
}

func TestWriteFormats(t *testing.T) {
	report := testReport(t, false)

	tests := []struct {
		format  string
		prefix  string
		wantErr bool
	}{
		{format: "pretty", prefix: "--- Mortgage payoff projection ---"},
		{format: "", prefix: "--- Mortgage payoff projection ---"},
		{format: "csv", prefix: "scenario,"},
		{format: "json", prefix: "{"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, report)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported format")
				}
				return
			}
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("output starts with %q, expected prefix %q", buf.String()[:min(len(buf.String()), 40)], tt.prefix)
			}
		})
	}
}
