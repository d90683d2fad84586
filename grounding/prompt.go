package grounding

import (
	"fmt"
	"strings"
)

// BuildPricePrompt produces the natural-language instruction for the
// grounded price search. If the active ingredient is known from the
// vocabulary lookup it is included so the model searches by salt too.
func BuildPricePrompt(medicineName, activeIngredient string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Search the web for current medicine prices in India for %q.\n\n", medicineName)

	if activeIngredient != "" {
		fmt.Fprintf(&b, "The active ingredient (salt) is %s.\n\n", activeIngredient)
	}

	b.WriteString("Report the following:\n")
	b.WriteString("1. The price of the branded medicine from named Indian pharmacy sources such as 1mg, PharmEasy, Netmeds or Apollo Pharmacy.\n")
	b.WriteString("2. At least 5 generic alternatives with the same salt and strength, each with its name, manufacturer if known, price, and the pharmacy source where the price was found.\n")
	b.WriteString("3. Mention Jan Aushadhi pricing if available.\n\n")
	b.WriteString("Format all prices in Indian Rupees with the ₹ symbol. ")
	b.WriteString("Name the pharmacy source for every price. ")
	b.WriteString("Do not include purchase links.")

	return b.String()
}
