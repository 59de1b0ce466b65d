package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/casefetch/court-api/internal/models"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	p, err := NewParser("https://delhihighcourt.nic.in", logger)
	require.NoError(t, err)
	return p
}

const resultPage = `<html><body>
<table class="table">
  <tr><th>S.No.</th><th>Diary No.</th><th>Parties</th><th>Listing Date</th></tr>
  <tr>
    <td>1</td>
    <td>W.P.(C) 1234/2023</td>
    <td>JOHN DOE VS. STATE OF DELHI</td>
    <td>Filed: 15/03/2023 Next: 20/06/2023</td>
  </tr>
</table>
<a href="/app/orders/1234_2023_order.pdf">Order dated 15/03/2023</a>
</body></html>`

func TestParseSuccess(t *testing.T) {
	p := newTestParser(t)

	result := p.Parse(context.Background(), resultPage, nil)
	require.Nil(t, result.Failure)
	require.NotNil(t, result.Record)

	rec := result.Record
	require.Equal(t, "JOHN DOE", rec.Parties.Plaintiff)
	require.Equal(t, "STATE OF DELHI", rec.Parties.Defendant)
	require.Equal(t, "2023-03-15", rec.FilingDate)
	require.Equal(t, "2023-06-20", rec.NextHearingDate)
	require.Equal(t, "Active", rec.Status)
	require.Len(t, rec.Orders, 1)
	require.Equal(t, "https://delhihighcourt.nic.in/app/orders/1234_2023_order.pdf", rec.Orders[0].URL)
	require.Equal(t, "Order", rec.Orders[0].Label)
	require.Equal(t, rec.FilingDate, rec.Orders[0].Date)
}

func TestParseIsDeterministic(t *testing.T) {
	p := newTestParser(t)

	first := p.Parse(context.Background(), resultPage, nil)
	second := p.Parse(context.Background(), resultPage, nil)
	require.Equal(t, first, second)
}

func TestParseNoRecordFound(t *testing.T) {
	p := newTestParser(t)

	for _, markup := range []string{
		`<html><body>No Record Found for this query</body></html>`,
		`<html><body><div>no data found</div></body></html>`,
		`<html><body>Record Not Found</body></html>`,
	} {
		result := p.Parse(context.Background(), markup, nil)
		require.NotNil(t, result.Failure, markup)
		require.Equal(t, models.ErrNoRecordFound, result.Failure.Kind)
	}
}

func TestParseNoTable(t *testing.T) {
	p := newTestParser(t)

	result := p.Parse(context.Background(), `<html><body><div>nothing here</div></body></html>`, nil)
	require.NotNil(t, result.Failure)
	require.Equal(t, models.ErrResultsTableNotFound, result.Failure.Kind)
}

func TestParseHeaderOnlyTable(t *testing.T) {
	p := newTestParser(t)

	markup := `<html><body><table><tr><th>Parties</th></tr></table></body></html>`
	result := p.Parse(context.Background(), markup, nil)
	require.NotNil(t, result.Failure)
	require.Equal(t, models.ErrNoDataRows, result.Failure.Kind)
}

func TestParsePartiesWithoutSeparator(t *testing.T) {
	p := newTestParser(t)

	markup := `<html><body><table>
<tr><th></th><th></th><th></th><th></th></tr>
<tr><td>1</td><td>X</td><td>IN RE: COURT ON ITS OWN MOTION</td><td></td></tr>
</table></body></html>`

	result := p.Parse(context.Background(), markup, nil)
	require.NotNil(t, result.Record)
	require.Equal(t, "IN RE: COURT ON ITS OWN MOTION", result.Record.Parties.Plaintiff)
	require.Equal(t, "N/A", result.Record.Parties.Defendant)
}

func TestParseMalformedDateLeavesFieldUnset(t *testing.T) {
	p := newTestParser(t)

	// 31/02/2023 looks date-shaped but does not exist.
	markup := `<html><body><table>
<tr><th></th><th></th><th></th><th></th></tr>
<tr><td>1</td><td>X</td><td>A VS. B</td><td>31/02/2023 then 20/06/2023</td></tr>
</table></body></html>`

	result := p.Parse(context.Background(), markup, nil)
	require.NotNil(t, result.Record)
	require.Empty(t, result.Record.FilingDate)
	require.Equal(t, "2023-06-20", result.Record.NextHearingDate)
}

func TestParseDeduplicatesOrderLinks(t *testing.T) {
	p := newTestParser(t)

	markup := `<html><body><table>
<tr><th></th><th></th><th></th><th></th></tr>
<tr><td>1</td><td>X</td><td>A VS. B</td><td>15/03/2023</td></tr>
</table>
<a href="/orders/one.pdf">first</a>
<a href="/orders/two.pdf">second</a>
<a href="/orders/one.pdf">first again</a>
</body></html>`

	result := p.Parse(context.Background(), markup, nil)
	require.NotNil(t, result.Record)
	require.Len(t, result.Record.Orders, 2)
	require.Equal(t, "https://delhihighcourt.nic.in/orders/one.pdf", result.Record.Orders[0].URL)
	require.Equal(t, "https://delhihighcourt.nic.in/orders/two.pdf", result.Record.Orders[1].URL)
}

type fakeOrdersNav struct {
	markup string
	err    error
	calls  int
}

func (f *fakeOrdersNav) OpenOrdersPage(_ context.Context) (string, error) {
	f.calls++
	return f.markup, f.err
}

func TestParseFallsBackToOrdersPage(t *testing.T) {
	p := newTestParser(t)

	// The result row has no anchors of its own.
	markup := `<html><body><table>
<tr><th></th><th></th><th></th><th></th></tr>
<tr><td>1</td><td>X</td><td>A VS. B</td><td>15/03/2023</td></tr>
</table></body></html>`

	nav := &fakeOrdersNav{markup: `<html><body>
<a href="/app/showlogo/secondary.pdf">order</a>
</body></html>`}

	result := p.Parse(context.Background(), markup, nav)
	require.NotNil(t, result.Record)
	require.Equal(t, 1, nav.calls)
	require.Len(t, result.Record.Orders, 1)
	require.Equal(t, "https://delhihighcourt.nic.in/app/showlogo/secondary.pdf", result.Record.Orders[0].URL)
}

func TestParseOrdersPageFailureIsNotFatal(t *testing.T) {
	p := newTestParser(t)

	markup := `<html><body><table>
<tr><th></th><th></th><th></th><th></th></tr>
<tr><td>1</td><td>X</td><td>A VS. B</td><td>15/03/2023</td></tr>
</table></body></html>`

	nav := &fakeOrdersNav{err: errors.New("orders link missing")}

	result := p.Parse(context.Background(), markup, nav)
	require.NotNil(t, result.Record)
	require.Empty(t, result.Record.Orders)
}

func TestParseOrdersPageWinsOverWholePageScan(t *testing.T) {
	p := newTestParser(t)

	nav := &fakeOrdersNav{markup: `<a href="/other.pdf">x</a>`}
	result := p.Parse(context.Background(), resultPage, nav)
	require.NotNil(t, result.Record)
	// Row anchors are absent in resultPage so the orders page is consulted
	// before the whole-page scan finds the trailing anchor.
	require.Equal(t, 1, nav.calls)
	require.Len(t, result.Record.Orders, 1)
	require.Equal(t, "https://delhihighcourt.nic.in/other.pdf", result.Record.Orders[0].URL)
}

func TestSplitParties(t *testing.T) {
	cases := []struct {
		in        string
		plaintiff string
		defendant string
	}{
		{"JOHN DOE VS. STATE", "JOHN DOE", "STATE"},
		{"john doe vs. state", "john doe", "state"},
		{"A Vs.B", "A", "B"},
		{"SOLO PETITIONER", "SOLO PETITIONER", "N/A"},
		{"", "", "N/A"},
	}
	for _, c := range cases {
		p := splitParties(c.in)
		require.Equal(t, c.plaintiff, p.Plaintiff, c.in)
		require.Equal(t, c.defendant, p.Defendant, c.in)
	}
}

func TestNormalizeDate(t *testing.T) {
	require.Equal(t, "2023-03-15", normalizeDate("15/03/2023"))
	require.Equal(t, "", normalizeDate("31/02/2023"))
	require.Equal(t, "", normalizeDate("banana"))
}
