package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var smallNumbers = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensNames = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords spells a rupee amount using the Indian numbering system, e.g.
// 123456.78 -> "Rupees One Lakh Twenty-Three Thousand Four Hundred Fifty-Six
// and Seventy-Eight Paise Only".
func AmountInWords(amount decimal.Decimal) string {
	a := amount.Abs().Round(2)
	rupees := a.IntPart()
	paise := a.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(indianWords(rupees))
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(belowHundred(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

func indianWords(n int64) string {
	if n == 0 {
		return smallNumbers[0]
	}

	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, indianWords(crore)+" Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh)+" Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, smallNumbers[h]+" Hundred")
	}
	if r := n % 100; r > 0 {
		parts = append(parts, belowHundred(r))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return smallNumbers[n]
	}
	word := tensNames[n/10]
	if n%10 != 0 {
		word += "-" + smallNumbers[n%10]
	}
	return word
}
