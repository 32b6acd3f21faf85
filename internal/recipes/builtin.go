package recipes

import (
	"fmt"

	"voicechef/internal/models"
)

// Builtin returns a fresh copy of the recipe book shipped with the action
func Builtin() []*models.Recipe {
	return []*models.Recipe{
		courgetteChickpeaSalad(),
		stickyPorkPatties(),
		roastedLamb(),
	}
}

func standardGuidelines(r *models.Recipe, extra ...string) {
	r.AddGuideline(fmt.Sprintf("Estimated prep & cooking time: %d minutes", r.TotalTime()))
	r.AddGuideline("Rinse all herbs and leaves before eating")
	for _, g := range extra {
		r.AddGuideline(g)
	}
}

func courgetteChickpeaSalad() *models.Recipe {
	r := models.NewRecipe(
		models.CategorySalad,
		"Courgette & Chickpea Salad",
		"Warm courgette & chickpea salad with goats cheese & almond",
		"Chante van der Walt",
		10, 10, 2,
		"https://cdn.24.co.za/files/Cms/General/d/2953/83e6306aa66242119eea03554e7ff202.jpg")

	standardGuidelines(r,
		"Quantities of fresh ingredients may vary, depending on natural size",
		"Choice of fresh ingredients may vary, depending on the season")

	r.AddIngredient("Chickpeas", "240 grams", "drained", true)
	r.AddIngredient("Courgettes", "2", "finely sliced", true)
	r.AddIngredient("Rocket", "40 grams", "", true)
	r.AddIngredient("Baby spinach", "160 grams", "", true)
	r.AddIngredient("Garlic clove", "1", "crushed", true)
	r.AddIngredient("Ginger", "8 grams", "", true)
	r.AddIngredient("Goats Cheese", "90 grams", "", true)
	r.AddIngredient("Lemon", "1", "", true)
	r.AddIngredient("Almond", "30 grams", "flaked", true)
	r.AddIngredient("Oregano", "8 grams", "chopped", true)
	r.AddIngredient("Olive oil", "", "", false)
	r.AddIngredient("Salt and black pepper", "", "", false)

	r.AddInstruction("In a dry frying pan on medium heat, toast your almonds until golden and set aside.", "")
	r.AddInstruction("Place saucepan over low-medium heat. Add a splash of olive oil, your garlic, ginger, "+
		"lemon zest and your courgette slices. Saute for 3 minutes until the courgettes are cooked to your preference.", "")
	r.AddInstruction("Add the chickpeas, baby spinach, and oregano to the saucepan for the last minute. "+
		"Toss through. Remove, season with salt, pepper and lemon juice. Toss through your rocket and a drizzle of olive oil.", "")
	r.AddInstruction("Crumble your goats cheese over the salad, and sprinkle your flaked almonds.", "")
	r.AddInstruction("Serve with lemon wedges for squeezing over.", "")
	return r
}

func stickyPorkPatties() *models.Recipe {
	r := models.NewRecipe(
		models.CategoryPork,
		"Sticky Asian-Style Pork Patties",
		"Served with a crisp carrot & sesame salad",
		"Chante van der Walt",
		15, 15, 2,
		"http://www.picknpay.co.za/picknpay/action/media/downloadFile?media_fileid=25072&a=597&s=450x260")

	standardGuidelines(r,
		"Quantities of fresh ingredients may vary, depending on natural size",
		"Choice of fresh ingredients may vary, depending on the season")

	r.AddIngredient("Garlic cloves", "2", "", true)
	r.AddIngredient("Sesame seeds", "10 ml", "", true)
	r.AddIngredient("Julienned carrots", "200 grams", "", true)
	r.AddIngredient("Chili", "1", "", true)
	r.AddIngredient("Coriander", "5 grams", "", true)
	r.AddIngredient("Tapioca flour", "5 ml", "", true)
	r.AddIngredient("Spring onion", "2", "", true)
	r.AddIngredient("Pak choi", "250 grams", "", true)
	r.AddIngredient("Pork mince", "300 grams", "", true)

	// Asian glaze
	r.AddIngredient("Soy sauce", "25 ml", "", true)
	r.AddIngredient("Hoisin sauce", "10 ml", "", true)
	r.AddIngredient("Mirin", "15 ml", "", true)

	// salad dressing
	r.AddIngredient("White wine vinegar", "25 ml", "", true)
	r.AddIngredient("Sesame oil", "15 ml", "", true)
	r.AddIngredient("Honey", "15 ml", "", true)

	r.AddIngredient("Salt, pepper, cooking oil, and water", "", "", false)

	r.AddInstruction("Place a pan (that has a lid which will be used later) over a medium heat. "+
		"When hot, add your sesame seeds and dry toast them for 3-4 minutes, shifting them as they colour. Remove from the pan on completion", "")
	r.AddInstruction("Finely slice your spring onion on the diagonal. Rinse and roughly chop your coriander. "+
		"Peel and grate your garlic.", "")
	r.AddInstruction("De-seed and finely slice your chili and lastly, rinse the pak choi leaves and slice the fatter end bits off. "+
		"Slice each leaf in half lengthways, cutting down the center of the stem.", "")
	r.AddInstruction("Return your pan over low-medium heat. Add a drizzle of cooking oil and the garlic. Saute until fragrant, about 2-3 minutes.", "")
	r.AddInstruction("Then add the pak choi and some seasoning to the pan. Add a drizzle of water and pop the lid on. Let the pak choi wilt for about 5-7 minutes, "+
		"checking on it every so often. Remove the pak choi from the pan when softened and place it into a bowl, "+
		"being sure to catch all the bits of garlic from the pan in the process.", "")
	r.AddInstruction("While your pak choi is wilting, prepare your pork patties. Ready a bowl of water to dip your hands into prior to "+
		"rolling out the patties. In another mixing bowl, add the pork mince, half the spring onion, the tapioca flour, and chili (to your heat "+
		"preference, reserving some for garnish). Mix these ingredients until well combined. Then dip your hands into the water and shape the pork "+
		"mince mixture into golf ball sized patties, about 3 per person. Squish them a little so they are slightly flattened and pop in the fridge to firm up.", "")
	r.AddInstruction("In a bowl, mix together the julienned carrot, chopped coriander, remaining spring onion, the salad dressing, and some salt. "+
		"Season further to taste, sprinkle over your toasted sesame seeds, toss to combine and set aside until serving.", "")
	r.AddInstruction("Return your pan over a medium heat. Add a further drizzle of cooking oil. When hot, add the pork patties "+
		"and cook for about 3-4 minutes on one side to get some nice colour. Season with salt and turn, cook the other side for about "+
		"2-3 minutes until cooked through - slice one open to check. Once cooked, pour over your Asian Glaze and allow it to bubble on the heat "+
		"for about 10 seconds before removing the pan from the heat.", "")
	r.AddInstruction("Plate up your crispy carrot and sesame salad alongside your wilted pak choi. Top with glazed pork patties, "+
		"being sure to incorporate any delicious glaze from the pan. Add some remaining fresh chili if you wish and VOILA. Great work, Chef!", "")
	return r
}

func roastedLamb() *models.Recipe {
	r := models.NewRecipe(
		models.CategoryLamb,
		"Barbeque Rubbed & Roasted Lamb",
		"With rustic baba ganoush & a cooling yoghurt tzatziki",
		"Klaudia Weixelbaumer",
		15, 35, 4,
		"http://www.picknpay.co.za/picknpay/action/media/downloadFile?media_fileid=25072&a=597&s=450x260")

	standardGuidelines(r)

	r.AddIngredient("Almonds", "40 grams", "flaked", true)
	r.AddIngredient("Onions", "2", "", true)
	r.AddIngredient("Tzatziki", "120 grams", "Mediterranean Delicacies", true)
	r.AddIngredient("Aubergine", "800 grams", "", true)
	r.AddIngredient("Leaves", "80 grams", "green", true)
	r.AddIngredient("Lamb leg", "640 grams", "deboned", true)
	r.AddIngredient("Rub", "30 mills", "NOMO Barbeque", true)
	r.AddIngredient("Salt, pepper, olive oil, cooking oil, water, and tinfoil", "", "", false)

	r.AddInstruction("Preheat oven to 200 degrees celcius. Prepare a tinfoil-lined baking tray, "+
		"the right size for your roast.", "")
	r.AddInstruction("Slice the aubergine into big chunks and place on your baking tray. "+
		"Wedge your onion and add to the aubergine. Add a generous drizzle of olive oil and some salt and pepper. "+
		"Toss until well coated. When your oven has reached temperature, roast the ingredients until they have just softened "+
		"and are turning golden, 25 to 35 minutes. Give the tray a shift at the halfway mark for even colouring.", "")
	r.AddInstruction("In the meantime, place a non-stick pan on medium heat. Add your flaked almonds and dry roast them, "+
		"shifting them around the pan for even colouring, about 3 to 5 minutes. Set aside for serving later and keep the pan for your lamb.", "")
	r.AddInstruction("When your veggies have been in the oven for 15 minutes, return the pan back to a medium high heat. "+
		"Add a drizzle of cooking oil. Remove your lamb from its packaging, season it with salt and sprinkle over the NOMU Barbeque rub "+
		"until well coated. Use the moisture of your meat to mop up the spices.", "")
	r.AddInstruction("When your pan is hot, add your lamb and brown it for 5 to 7 minutes total, shifting it as it colours. "+
		"Do this in batches to prevent overcrowding the pan. Then assess if your lamb needs further cooking - depending on its shape "+
		"and thickness. If so, remove your veggies from the oven and make some room for your lamb. If your veggies are cooked to "+
		"your preference already, simply remove them from your tray and set them aside until serving.", "")
	r.AddInstruction("Place your lamb in the oven alongside your veggies or by itself and let it cook for a further 5 to 8 minutes, "+
		"or until cooked to your preference. Let your lamb rest for 5 minutes outside of the oven before slicing it. Lightly season your "+
		"slices with salt and pepper.", "")
	r.AddInstruction("Rinse (be water-wise) and drain your green leaves. Toss with some olive oil and salt.", "")
	r.AddInstruction("To serve, plate up a bed of rustic baba ganoush (roasted onion and aubergine), top with your fresh leaves "+
		"and then with the sliced lamb. Dollop over your tzatziki, sprinkle over your flaked almonds and finally, pour over any "+
		"remaining lamb juices from your pan for extra flavour! Nice one, Chef!", "")
	return r
}
