package extract

import "testing"

func TestEconomicCalendarStructuredTable(t *testing.T) {
	page := `<html><body>
	<table id="calendar">
		<tr><th colspan="7">Monday September 01 2026</th></tr>
		<tr data-country="India">
			<td>11:30 AM</td>
			<td><span class="calendar-importance-3"></span></td>
			<td><a href="/india/gdp-growth">GDP Growth Rate YoY</a></td>
			<td id="actual-1">7.8%</td>
			<td id="forecast-1">7.2%</td>
			<td id="previous-1">7.4%</td>
		</tr>
		<tr data-country="United States">
			<td>06:00 PM</td>
			<td><span class="calendar-importance-2"></span></td>
			<td><a href="/us/ism">ISM Manufacturing PMI</a></td>
			<td id="actual-2"></td>
			<td id="forecast-2">49.5</td>
			<td id="previous-2">48.7</td>
		</tr>
	</table>
	</body></html>`

	headers, rows := EconomicCalendar(page)
	if len(headers) != len(EconomicHeaders) {
		t.Fatalf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}

	first := rows[0]
	if first["date"].Text != "Monday September 01 2026" {
		t.Errorf("date = %q", first["date"].Text)
	}
	if first["time"].Text != "11:30 AM" {
		t.Errorf("time = %q", first["time"].Text)
	}
	if first["country"].Text != "India" {
		t.Errorf("country = %q", first["country"].Text)
	}
	if first["event"].Text != "GDP Growth Rate YoY" {
		t.Errorf("event = %q", first["event"].Text)
	}
	if first["actual"].Text != "7.8%" || first["forecast"].Text != "7.2%" || first["previous"].Text != "7.4%" {
		t.Errorf("values = %q/%q/%q", first["actual"].Text, first["forecast"].Text, first["previous"].Text)
	}
	if first["importance"].Text != "high" {
		t.Errorf("importance = %q", first["importance"].Text)
	}
	if rows[1]["importance"].Text != "medium" {
		t.Errorf("second importance = %q", rows[1]["importance"].Text)
	}
}

func TestEconomicCalendarGenericTableFallback(t *testing.T) {
	page := `<html><body>
	<table>
		<thead><tr><th>Date</th><th>Time</th><th>Country</th><th>Event</th></tr></thead>
		<tbody>
			<tr><td>01 Sep</td><td>11:30</td><td>India</td><td>Inflation Rate YoY</td></tr>
			<tr><td>01 Sep</td><td>14:00</td><td>Euro Area</td><td>Unemployment Rate</td></tr>
		</tbody>
	</table>
	</body></html>`

	headers, rows := EconomicCalendar(page)
	if len(headers) != len(EconomicHeaders) {
		t.Fatalf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows: %+v", len(rows), rows)
	}
	// Positional mapping: first cell lands in "date", fourth in "event".
	if rows[0]["date"].Text != "01 Sep" {
		t.Errorf("date = %q", rows[0]["date"].Text)
	}
	if rows[0]["event"].Text != "Inflation Rate YoY" {
		t.Errorf("event = %q", rows[0]["event"].Text)
	}
}

func TestEconomicCalendarRawTextFallback(t *testing.T) {
	page := `<html><body>
		<p>India GDP growth accelerated in the June quarter, beating forecasts.</p>
		<p>Totally unrelated navigation text</p>
	</body></html>`

	headers, rows := EconomicCalendar(page)
	if len(headers) != 1 || headers[0] != "raw_text" {
		t.Fatalf("headers = %v", headers)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows: %+v", len(rows), rows)
	}
}
