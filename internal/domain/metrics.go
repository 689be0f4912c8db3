package domain

import "time"

// Metric result shapes served to the dashboard. All are JSON-serializable
// and cacheable; the metrics cache owns nothing durable.

// Overview summarizes a tenant at a glance.
type Overview struct {
	Customers int64   `json:"customers"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

// TopCustomer is one row of the top-N customers by spend.
type TopCustomer struct {
	Name   string  `json:"name"`
	Spent  float64 `json:"spent"`
	Orders int64   `json:"orders"`
}

// RecentOrder is one row of the recent-orders feed.
type RecentOrder struct {
	Customer string    `json:"customer"`
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
	Date     time.Time `json:"date"`
}

// FinancialStatusCount buckets orders by financial status.
type FinancialStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailyIncome is revenue for one day of the current month, zero-filled.
type DailyIncome struct {
	Day    int     `json:"day"`
	Income float64 `json:"income"`
}

// MonthlySales is revenue for one calendar month, zero-filled.
type MonthlySales struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

// Aggregation rows returned by the order repository. Grouping keys may be
// NULL in the store, hence the pointers.

// CustomerSpend is a group-by-customer aggregation row.
type CustomerSpend struct {
	CustomerID *string
	Total      float64
	Orders     int64
}

// StatusCount is a group-by-financial-status aggregation row.
type StatusCount struct {
	Status *string
	Count  int64
}

// DayTotal is a revenue-by-day-of-month aggregation row.
type DayTotal struct {
	Day   int
	Total float64
}

// MonthTotal is a revenue-by-calendar-month aggregation row.
type MonthTotal struct {
	Month time.Month
	Total float64
}
