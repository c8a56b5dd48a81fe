package workitem_test

import (
	"testing"

	"github.com/dkautomation/planrefresh/internal/workitem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data string

		wantSite     string
		wantPath     string
		wantFunction string
		wantErr      bool
	}{
		"Full payload": {
			data:     `{"SharePointSite":"https://x/sites/A","FolderPath":"Docs/Reports/plan.xlsx","CustomFunction":"MonthlyFolder"}`,
			wantSite: "https://x/sites/A", wantPath: "Docs/Reports/plan.xlsx", wantFunction: "MonthlyFolder",
		},
		"No custom function": {
			data:     `{"SharePointSite":"https://x/sites/A","FolderPath":"Docs/plan.xlsx"}`,
			wantSite: "https://x/sites/A", wantPath: "Docs/plan.xlsx",
		},
		"Null custom function": {
			data:     `{"SharePointSite":"https://x/sites/A","FolderPath":"Docs/plan.xlsx","CustomFunction":null}`,
			wantSite: "https://x/sites/A", wantPath: "Docs/plan.xlsx",
		},
		"Unknown fields are ignored": {
			data:     `{"SharePointSite":"https://x/sites/A","FolderPath":"Docs/plan.xlsx","Extra":42}`,
			wantSite: "https://x/sites/A", wantPath: "Docs/plan.xlsx",
		},

		"Missing site":        {data: `{"FolderPath":"Docs/plan.xlsx"}`, wantErr: true},
		"Missing folder path": {data: `{"SharePointSite":"https://x/sites/A"}`, wantErr: true},
		"Empty payload":       {data: `{}`, wantErr: true},
		"Invalid JSON":        {data: `{not json`, wantErr: true},
		"JSON array":          {data: `[1,2]`, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			id := uuid.New()
			item, err := workitem.Parse(id, []byte(tc.data))
			if tc.wantErr {
				require.Error(t, err, "Parse should return an error")
				return
			}
			require.NoError(t, err, "Parse should not return an error")

			require.Equal(t, id, item.ID, "Parse should keep the element ID")
			require.Equal(t, tc.wantSite, item.Site, "Parse should return the expected site")
			require.Equal(t, tc.wantPath, item.FolderPath, "Parse should return the expected folder path")
			require.Equal(t, tc.wantFunction, item.CustomFunction, "Parse should return the expected custom function")
		})
	}
}

func TestWantsMonthlyArchive(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		function string

		want bool
	}{
		"MonthlyFolder literal":  {function: "MonthlyFolder", want: true},
		"Empty function":         {function: ""},
		"Other value is ignored": {function: "WeeklyFolder"},
		"Case sensitive":         {function: "monthlyfolder"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			item := workitem.Item{CustomFunction: tc.function}
			require.Equal(t, tc.want, item.WantsMonthlyArchive(), "WantsMonthlyArchive should match the expected state")
		})
	}
}
