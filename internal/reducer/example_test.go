package reducer

import (
	"context"
	"fmt"
)

func ExampleReduce() {
	res, err := Reduce(1, 101, 4)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Sum)
	for _, p := range res.Partials {
		fmt.Println(p.Interval, p.Sum)
	}
	// Output:
	// 5050
	// [1, 26) 325
	// [26, 51) 950
	// [51, 76) 1575
	// [76, 101) 2200
}

func ExamplePartition() {
	parts, _ := Partition(Interval{Start: 0, End: 10}, 3)
	fmt.Println(parts)
	// Output:
	// [[0, 4) [4, 7) [7, 10)]
}

func ExampleNewDefaultFactory() {
	factory := NewDefaultFactory()
	fmt.Println(factory.List())

	s, _ := factory.Get("formula")
	res, _ := New(WithSummer(s)).Reduce(context.Background(), -10, 11, 3)
	fmt.Println(res.Algorithm, res.Sum)
	// Output:
	// [formula loop]
	// Closed Form 0
}
