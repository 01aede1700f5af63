package verify

import (
	"math"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
)

// AccountingVerifier recomputes accounting identities, depreciation
// schedules, financial ratios and cost-volume-profit figures.
type AccountingVerifier struct{}

// NewAccountingVerifier creates an AccountingVerifier.
func NewAccountingVerifier() *AccountingVerifier { return &AccountingVerifier{} }

// Subject returns model.SubjectAccounting.
func (a *AccountingVerifier) Subject() model.Subject { return model.SubjectAccounting }

// Keywords returns the routing vocabulary.
func (a *AccountingVerifier) Keywords() []string {
	return []string{
		"assets", "liabilities", "equity", "debit", "credit", "inventory", "cogs", "cost of goods",
		"depreciation", "salvage", "useful life", "book value", "ratio", "margin", "break-even",
		"break even", "fixed cost", "variable cost", "contribution", "net income",
	}
}

// Matches reports whether the problem uses accounting vocabulary.
func (a *AccountingVerifier) Matches(p *Problem) bool {
	return p.mentions(a.Keywords()...)
}

// Run tries the accounting families in order.
func (a *AccountingVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, depreciationCase, cvpCase, trialBalanceCase, inventoryCase, ratioCase, balanceSheetCase)
	return verification(model.SubjectAccounting, methodClosedForm, checks), nil
}

var (
	lblAssets      = label("A", "total assets", "assets")
	lblLiabilities = label("L", "total liabilities", "liabilities")
	lblEquityAcct  = label("E OE", "owner's equity", "owners' equity", "owners equity", "stockholders' equity", "shareholders' equity", "total equity", "equity")
)

func balanceSheetCase(p *Problem) []target {
	if !p.asks("assets", "liabilities", "equity") {
		return nil
	}
	a, okA := p.raw(lblAssets)
	l, okL := p.raw(lblLiabilities)
	e, okE := p.raw(lblEquityAcct)
	switch {
	case okL && okE && !okA:
		return []target{money("assets L + E", []string{"assets", "total assets", "a"}, "", l+e)}
	case okA && okE && !okL:
		return []target{money("liabilities A - E", []string{"liabilities", "total liabilities", "l"}, "", a-e)}
	case okA && okL && !okE:
		return []target{money("equity A - L", []string{"equity", "owner's equity", "owners equity", "stockholders' equity", "e"}, "", a-l)}
	}
	return nil
}

var (
	lblDebits  = label("", "debits", "debit balances", "debit entries")
	lblCredits = label("", "credits", "credit balances", "credit entries")
)

func trialBalanceCase(p *Problem) []target {
	if !p.asks("debit") || !p.asks("credit") {
		return nil
	}
	ds, ok1 := p.list(lblDebits)
	cs, ok2 := p.list(lblCredits)
	if !ok1 || !ok2 {
		return nil
	}
	var d, c float64
	for _, x := range ds {
		d += x
	}
	for _, x := range cs {
		c += x
	}
	return []target{
		money("total debits", []string{"total debits", "debits"}, `total debits`, d),
		money("total credits", []string{"total credits", "credits"}, `total credits`, c),
		{label: "debits - credits", names: []string{"difference", "out of balance", "imbalance"}, asks: asks(`difference|balance`), value: d - c, absolute: true, tol: numeric.Loose},
	}
}

var (
	lblBeginInv  = label("BI", "beginning inventory", "opening inventory", "inventory at the beginning")
	lblPurchases = label("", "purchases", "net purchases")
	lblCOGS      = label("COGS", "cost of goods sold", "cogs", "cost of sales")
	lblEndInv    = label("EI", "ending inventory", "closing inventory", "inventory at the end")
)

func inventoryCase(p *Problem) []target {
	if !p.asks("inventory", "cogs", "cost of goods") {
		return nil
	}
	bi, ok1 := p.raw(lblBeginInv)
	pu, ok2 := p.raw(lblPurchases)
	cg, ok3 := p.raw(lblCOGS)
	ei, ok4 := p.raw(lblEndInv)
	switch {
	case ok1 && ok2 && ok4 && !ok3:
		return []target{money("COGS BI + purchases - EI", []string{"cogs", "cost of goods sold"}, "", bi+pu-ei)}
	case ok1 && ok2 && ok3 && !ok4:
		return []target{money("ending inventory BI + purchases - COGS", []string{"ending inventory", "ei"}, "", bi+pu-cg)}
	case ok2 && ok3 && ok4 && !ok1:
		return []target{money("beginning inventory EI + COGS - purchases", []string{"beginning inventory", "bi"}, "", ei+cg-pu)}
	case ok1 && ok3 && ok4 && !ok2:
		return []target{money("purchases EI + COGS - BI", []string{"purchases"}, "", ei+cg-bi)}
	}
	return nil
}

var (
	lblCost       = label("", "cost", "costs", "purchased for", "bought for", "acquired for", "purchase price")
	lblSalvage    = label("", "salvage value", "residual value", "scrap value", "salvage")
	lblLife       = label("", "useful life", "life", "estimated life")
	lblYearN      = label("", "year", "in year", "for year", "end of year", "after")
	lblTotalUnits = label("", "total units", "estimated units", "expected to produce", "total production", "total of", "estimated output")
	lblUnitsUsed  = label("", "units produced", "produced", "used", "this year", "during the year")
)

// depreciationCase covers straight-line, double-declining balance and
// units-of-production depreciation.
func depreciationCase(p *Problem) []target {
	if !p.asks("depreciat") {
		return nil
	}
	cost, ok1 := p.raw(lblCost)
	life, ok2 := p.raw(lblLife)
	if !ok1 || !ok2 || life <= 0 {
		return nil
	}
	salvage, _ := p.raw(lblSalvage)
	year, okYear := p.raw(lblYearN)
	if !okYear || year < 1 || year > life {
		year = 1
	}
	expenseNames := []string{"depreciation", "depreciation expense", "annual depreciation", "expense", "d"}
	bookNames := []string{"book value", "bv", "carrying value", "net book value"}
	accumulatedNames := []string{"accumulated depreciation", "accumulated"}

	switch {
	case p.asks("double", "ddb", "declining"):
		rate := 2 / life
		bv := cost
		var expense, accumulated float64
		for y := 1; y <= int(year); y++ {
			expense = math.Min(bv*rate, math.Max(bv-salvage, 0))
			bv -= expense
			accumulated += expense
		}
		return []target{
			money("double-declining book value", bookNames, `book value|carrying value`, bv),
			money("accumulated depreciation", accumulatedNames, `accumulated`, accumulated),
			money("double-declining expense", expenseNames, `expense|depreciation`, expense),
		}
	case p.asks("units of production", "units-of-production", "activity", "per unit"):
		total, okT := p.raw(lblTotalUnits)
		used, okU := p.raw(lblUnitsUsed)
		if !okT || !okU || total == 0 {
			return nil
		}
		perUnit := (cost - salvage) / total
		return []target{
			money("depreciation per unit", []string{"rate per unit", "depreciation per unit", "per unit"}, `per unit`, perUnit),
			money("units-of-production expense", expenseNames, `expense|depreciation`, perUnit*used),
		}
	}
	annual := (cost - salvage) / life
	return []target{
		money("straight-line book value", bookNames, `book value|carrying value`, cost-annual*year),
		money("accumulated depreciation", accumulatedNames, `accumulated`, annual*year),
		money("straight-line (cost - salvage)/life", expenseNames, `expense|depreciation`, annual),
	}
}

var (
	lblCurrentAssets = label("CA", "current assets")
	lblCurrentLiabs  = label("CL", "current liabilities")
	lblInventoryBal  = label("", "inventory", "inventories")
	lblNetIncome     = label("NI", "net income", "net profit", "profit")
	lblRevenue       = label("R", "revenue", "sales", "net sales", "total revenue")
)

func ratioCase(p *Problem) []target {
	if !p.asks("ratio", "margin", "return on", "roa", "roe") {
		return nil
	}
	var ts []target
	ca, okCA := p.raw(lblCurrentAssets)
	cl, okCL := p.raw(lblCurrentLiabs)
	if okCA && okCL && cl != 0 {
		ts = append(ts, target{label: "current ratio CA/CL", names: []string{"current ratio"}, asks: asks(`current ratio`), value: ca / cl})
		if inv, ok := p.raw(lblInventoryBal); ok {
			ts = append(ts, target{label: "quick ratio (CA - inventory)/CL", names: []string{"quick ratio", "acid-test ratio", "acid test ratio"}, asks: asks(`quick|acid`), value: (ca - inv) / cl})
		}
	}
	l, okL := p.raw(lblLiabilities)
	e, okE := p.raw(lblEquityAcct)
	if okL && okE && e != 0 {
		ts = append(ts, target{label: "debt-to-equity L/E", names: []string{"debt-to-equity", "debt to equity", "d/e", "debt-to-equity ratio", "debt to equity ratio"}, asks: asks(`debt.to.equity|d/e`), value: l / e})
	}
	ni, okNI := p.raw(lblNetIncome)
	if a, ok := p.raw(lblAssets); ok && okNI && a != 0 {
		ts = append(ts, target{label: "ROA net income/assets", names: []string{"roa", "return on assets"}, asks: asks(`roa|return on assets`), value: ni / a, rate: true})
	}
	if okNI && okE && e != 0 {
		ts = append(ts, target{label: "ROE net income/equity", names: []string{"roe", "return on equity"}, asks: asks(`roe|return on equity`), value: ni / e, rate: true})
	}
	if rev, ok := p.raw(lblRevenue); ok && rev != 0 {
		if cg, ok := p.raw(lblCOGS); ok {
			ts = append(ts, target{label: "gross margin (revenue - COGS)/revenue", names: []string{"gross margin", "gross profit margin", "gross margin ratio"}, asks: asks(`gross`), value: (rev - cg) / rev, rate: true})
		}
		if okNI {
			ts = append(ts, target{label: "net margin net income/revenue", names: []string{"net margin", "net profit margin", "profit margin"}, asks: asks(`net (profit )?margin|profit margin`), value: ni / rev, rate: true})
		}
	}
	return ts
}

var (
	lblFixedCosts   = label("FC F", "fixed costs", "fixed cost", "total fixed costs")
	lblUnitPrice    = label("p", "selling price", "price per unit", "sells for", "sells at", "unit price", "price")
	lblVariableCost = label("v VC", "variable cost per unit", "variable cost", "variable costs", "unit variable cost")
	lblTargetProfit = label("TP", "target profit", "desired profit", "target income", "profit of")
)

func cvpCase(p *Problem) []target {
	if !p.asks("break-even", "break even", "breakeven", "contribution margin", "target profit", "desired profit") {
		return nil
	}
	fc, ok1 := p.raw(lblFixedCosts)
	price, ok2 := p.raw(lblUnitPrice)
	vc, ok3 := p.raw(lblVariableCost)
	if !ok1 || !ok2 || !ok3 || price == vc || price == 0 {
		return nil
	}
	cm := price - vc
	var ts []target
	if tp, ok := p.raw(lblTargetProfit); ok {
		ts = append(ts, target{label: "target profit units (FC + TP)/CM", names: []string{"units", "q", "units needed", "required units"}, asks: asks(`target|desired`), value: (fc + tp) / cm})
	}
	units := fc / cm
	ts = append(ts,
		target{label: "contribution margin ratio CM/p", names: []string{"cm ratio", "contribution margin ratio", "cmr"}, asks: asks(`margin ratio`), value: cm / price, rate: true},
		money("break-even sales units*p", []string{"break-even sales", "break even sales", "sales", "revenue", "break-even revenue", "break-even dollars"}, `break.?even (sales|revenue)|in dollars|sales dollars`, units*price),
		target{label: "break-even units FC/(p - v)", names: []string{"break-even units", "break even units", "break-even point", "bep", "units", "q", "break-even"}, asks: asks(`units|break.?even point`), value: units},
		money("contribution margin per unit p - v", []string{"contribution margin", "cm", "unit contribution margin"}, `contribution margin`, cm),
	)
	return ts
}
