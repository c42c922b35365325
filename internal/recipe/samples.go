package recipe

// Samples returns the recipes a fresh catalog is seeded with.
func Samples() []Fields {
	return []Fields{
		{
			Title:              "Омлет із сиром",
			Category:           "Сніданок",
			CookTime:           intPtr(15),
			Servings:           intPtr(2),
			CaloriesPerServing: intPtr(320),
			Description:        "Швидкий і поживний сніданок із яйцями та твердим сиром.",
			Ingredients: []string{
				"3 яйця",
				"40 мл молока",
				"20 г твердого сиру",
				"щіпка солі",
				"рослинна олія для смаження",
			},
			Steps: []string{
				"Збийте яйця з молоком та сіллю.",
				"Розігрійте сковороду з невеликою кількістю олії.",
				"Вилийте яєчну масу, посипте тертим сиром.",
				"Готуйте на середньому вогні до готовності, складіть омлет навпіл.",
			},
		},
		{
			Title:              "Крем-суп із гарбуза",
			Category:           "Обід",
			CookTime:           intPtr(40),
			Servings:           intPtr(3),
			CaloriesPerServing: intPtr(250),
			Description:        "Ніжний гарбузовий суп із вершками та часником.",
			Ingredients: []string{
				"400 г гарбуза",
				"1 картоплина",
				"1 морква",
				"1 цибулина",
				"1–2 зубчики часнику",
				"200 мл вершків",
				"сіль, перець за смаком",
				"олія для обсмажування",
			},
			Steps: []string{
				"Наріжте овочі кубиками.",
				"Обсмажте цибулю й часник на олії до м’якоті.",
				"Додайте гарбуз, картоплю, моркву та залийте водою.",
				"Варіть до м’якості овочів, потім подрібніть блендером.",
				"Додайте вершки, доведіть майже до кипіння, приправте спеціями.",
			},
		},
		{
			Title:              "Запечене куряче філе з овочами",
			Category:           "Вечеря",
			CookTime:           intPtr(35),
			Servings:           intPtr(2),
			CaloriesPerServing: intPtr(280),
			Description:        "Легка вечеря: курка та овочі, запечені в духовці.",
			Ingredients: []string{
				"300 г курячого філе",
				"1 болгарський перець",
				"1 невеликий кабачок",
				"1 цибулина",
				"2 ст. л. оливкової олії",
				"суміш трав, сіль, перець",
			},
			Steps: []string{
				"Наріжте філе та овочі середніми шматочками.",
				"Змішайте з олією, спеціями, сіллю та перцем.",
				"Викладіть у форму для запікання.",
				"Запікайте 25–30 хвилин при 190°C до золотистої скоринки.",
			},
		},
		{
			Title:              "Шоколадний брауні",
			Category:           "Десерт",
			CookTime:           intPtr(45),
			Servings:           intPtr(8),
			CaloriesPerServing: intPtr(380),
			Description:        "Соковитий шоколадний десерт із хрусткою скоринкою.",
			Ingredients: []string{
				"200 г темного шоколаду",
				"150 г вершкового масла",
				"3 яйця",
				"180 г цукру",
				"120 г борошна",
				"дрібка солі",
			},
			Steps: []string{
				"Розтопіть шоколад із маслом на водяній бані.",
				"Збийте яйця з цукром до світлої маси.",
				"Влийте шоколадну суміш, додайте борошно та сіль, перемішайте.",
				"Вилийте тісто у форму та випікайте 20–25 хвилин при 180°C.",
			},
		},
	}
}
