package pipeline

import (
	"context"

	"tds-export/models"
	"tds-export/services"
)

// Omissions are system and audit columns that never reach an export,
// whatever they contain.
var Omissions = []string{
	"SysCreatedDate", "SysTimeStamp", "SysRecStatus", "SysCreatedBy",
	"BorrowerF", "CompanyF", "SortName", "ByLastName", "FundControl",
	"ACH_IndividualId", "XML", "LanguagePreference", "InsuranceDocument",
}

// MappingURLs point each sheet at its field-mapping help page. Sheets
// without an entry get no header notes.
var MappingURLs = map[string]string{
	"1-Loans":                  "https://help.themortgageoffice.com/knowledge/loan-field-mappings",
	"2-Co-Borrowers":           "https://help.themortgageoffice.com/knowledge/co-borrower-field-mappings",
	"3-Fundings":               "https://help.themortgageoffice.com/knowledge/what-are-the-vendor-field-mappings",
	"4-Properties_&_Insurance": "https://help.themortgageoffice.com/knowledge/what-are-the-properties-insurance-field-mappings",
}

// Fetcher runs one query and returns its full result.
type Fetcher interface {
	FetchTable(ctx context.Context, query string, args ...any) (*models.Table, error)
}

// Sheet describes one workbook: a name, how to build its table, and any
// post-processing applied after cleaning. Adding or removing a sheet is a
// data change here, not a code change in the runner.
type Sheet struct {
	Name  string
	Query string
	// Build replaces the query-then-clean path for sheets assembled from
	// more than one query.
	Build func(ctx context.Context, fetch Fetcher) (*models.Table, error)
	Post  func(t *models.Table) *models.Table
}

const (
	queryLoans = `SELECT * FROM [TDS Loans]`

	queryCoBorrowers = `SELECT l.Account, t.*
		FROM [TDS CoBorrowers] t
		LEFT JOIN [TDS Loans] l ON t.LoanRecID = l.RecID`

	queryFundings = `SELECT l.Account AS Loan_Account, lend.Account AS Lender_Account, f.*, d.*
		FROM [TDS Funding] f
		INNER JOIN [TDS Draws] d ON f.RecID = d.FundingRecID
		LEFT JOIN [TDS Loans] l ON f.LoanRecID = l.RecID
		LEFT JOIN [TDS Lenders] lend ON f.LenderRecID = lend.RecID`

	queryProperties = `SELECT l.Account, p.RecID AS _pid, p.*
		FROM [TDS Properties] p
		LEFT JOIN [TDS Loans] l ON p.LoanRecID = l.RecID`

	queryInsurance = `SELECT * FROM [TDS Insurance]`

	queryVouchers = `SELECT l.Account, t.*
		FROM [TDS Vouchers] t
		LEFT JOIN [TDS Loans] l ON t.LoanRecID = l.RecID`

	queryLoanHistory = `SELECT l.Account, t.*
		FROM [TDS Loan History] t
		LEFT JOIN [TDS Loans] l ON t.LoanRecID = l.RecID`
)

// Sheets returns the export set in output order.
func Sheets() []Sheet {
	return []Sheet{
		{
			Name:  "1-Loans",
			Query: queryLoans,
			Post: func(t *models.Table) *models.Table {
				// Placeholder columns filled in by hand after import.
				t.AppendEmptyColumn("ReserveBalance")
				t.AppendEmptyColumn("ImpoundBalance")
				return t
			},
		},
		{
			Name:  "2-Co-Borrowers",
			Query: queryCoBorrowers,
		},
		{
			Name:  "3-Fundings",
			Query: queryFundings,
			Post: func(t *models.Table) *models.Table {
				return services.NormalizeRateSuffixes(t).MoveToFront("Loan_Account", "Lender_Account")
			},
		},
		{
			Name:  "4-Properties_&_Insurance",
			Build: buildPropertiesInsurance,
		},
		{
			Name:  "5-Escrow_Vouchers",
			Query: queryVouchers,
			Post: func(t *models.Table) *models.Table {
				t.RenameColumn("Account", "Loan Account")
				return t
			},
		},
		{
			Name:  "6-Loan_History",
			Query: queryLoanHistory,
		},
	}
}

func buildPropertiesInsurance(ctx context.Context, fetch Fetcher) (*models.Table, error) {
	properties, err := fetch.FetchTable(ctx, queryProperties)
	if err != nil {
		return nil, err
	}
	insurance, err := fetch.FetchTable(ctx, queryInsurance)
	if err != nil {
		return nil, err
	}
	return services.MergePropertiesInsurance(properties, insurance, Omissions)
}
