package grocery

import (
	"sort"
	"strings"
)

// Uncategorized is returned by Categorize when no keyword matches.
const Uncategorized = "Other"

// keywords maps a category name to the item words that identify it.
var keywords = map[string][]string{
	"Produce": {
		"apple", "banana", "orange", "lemon", "lime", "avocado", "tomato", "potato",
		"onion", "garlic", "lettuce", "spinach", "kale", "broccoli", "carrot", "celery",
		"cucumber", "pepper", "mushroom", "grape", "strawberr", "blueberr", "raspberr",
		"melon", "pineapple", "mango", "peach", "pear", "cilantro", "basil", "parsley",
		"ginger", "zucchini", "asparagus", "green beans", "cabbage", "salad", "herbs",
		"eggplant",
	},
	"Dairy": {
		"milk", "cheese", "yogurt", "butter", "cream", "egg", "sour cream", "cottage",
		"mozzarella", "cheddar", "parmesan", "half and half", "creamer",
	},
	"Bakery": {
		"bread", "bagel", "baguette", "croissant", "muffin", "roll", "bun", "tortilla",
		"pita", "cake", "donut", "doughnut", "pastry", "sourdough",
	},
	"Meat & Seafood": {
		"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak",
		"ground", "lamb", "salmon", "tuna steak", "shrimp", "fish", "cod", "tilapia",
		"crab", "lobster", "ribs", "meatball", "deli",
	},
	"Pantry": {
		"rice", "pasta", "spaghetti", "noodle", "flour", "sugar", "salt", "oil",
		"vinegar", "sauce", "soup", "canned", "beans", "cereal", "oats", "oatmeal",
		"peanut butter", "jam", "honey", "syrup", "spice", "ketchup", "mustard",
		"mayo", "broth", "stock", "lentil", "quinoa", "tuna",
	},
	"Beverages": {
		"water", "juice", "soda", "coffee", "tea", "beer", "wine", "kombucha",
		"lemonade", "sparkling", "energy drink", "sports drink",
	},
	"Frozen": {
		"frozen", "ice cream", "popsicle", "pizza", "waffles", "ice",
	},
	"Snacks": {
		"chips", "crackers", "pretzel", "popcorn", "cookie", "candy", "chocolate",
		"granola", "nuts", "almonds", "trail mix", "bar",
	},
	"Household": {
		"paper towel", "toilet paper", "tissue", "detergent", "dish soap", "bleach",
		"trash bag", "foil", "plastic wrap", "sponge", "cleaner", "batteries", "napkin",
	},
	"Personal Care": {
		"shampoo", "conditioner", "toothpaste", "toothbrush", "deodorant", "lotion",
		"razor", "floss", "body wash", "sunscreen", "soap",
	},
}

type keyword struct {
	word     string
	category string
}

// byLength lists every keyword, longest first, so "ice cream" beats "cream"
// and "dish soap" beats "soap".
var byLength = func() []keyword {
	var all []keyword
	for cat, words := range keywords {
		for _, w := range words {
			all = append(all, keyword{word: w, category: cat})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if len(all[i].word) != len(all[j].word) {
			return len(all[i].word) > len(all[j].word)
		}
		return all[i].word < all[j].word
	})
	return all
}()

// Categorize guesses the category of an item from its name. Matching is case
// insensitive and prefers the longest keyword found in the name.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Uncategorized
	}
	for _, k := range byLength {
		if strings.Contains(name, k.word) {
			return k.category
		}
	}
	return Uncategorized
}
