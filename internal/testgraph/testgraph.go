// Package testgraph provides the object graphs used by the package tests,
// with factory functions for the common shapes (shared references,
// recursion, back-references).
package testgraph

import (
	"time"

	"github.com/google/uuid"
)

// WorkerStatus is an enumerated type.
type WorkerStatus int

const (
	Manager WorkerStatus = iota
	Supervisor
	Director
	Normal
)

// String makes WorkerStatus print by name, which serialization must not use.
func (s WorkerStatus) String() string {
	switch s {
	case Manager:
		return "Manager"
	case Supervisor:
		return "Supervisor"
	case Director:
		return "Director"
	default:
		return "Normal"
	}
}

type Factory struct {
	Workers     []*Worker
	Departments []*Department
	Name        string
}

type Worker struct {
	Name              string
	Salary            float32
	CurrentDepartment *Department
	Friends           []*Worker
	HireDate          time.Time
	Status            WorkerStatus
	Password          string `coredata:"-"`
	Image             []byte
	IsEnabled         bool
	Badge             uuid.UUID
}

// Equal reports every pair of workers as equal. Node identity must ignore it.
func (w *Worker) Equal(*Worker) bool { return true }

type Department struct {
	Name    string
	Workers []*Worker
}

// Shop, Product and Owner model parents referenced back by their children.
type Shop struct {
	Products []*Product
	Owner    *Owner
}

type Product struct {
	Name     string
	Shop     *Shop `coredata:"backref"`
	Variants []*Variant
}

type Variant struct {
	Color   string
	Product *Product `coredata:"backref"`
}

// Catalog returns products that are not part of any graph. Walks never
// call methods, so a type exposing instances of itself this way is safe.
func (Product) Catalog() []*Product {
	return []*Product{{Name: "Outrageously priced product"}}
}

type Owner struct {
	Name string
	Shop *Shop `coredata:"backref"`
}

// Crew and Member model a back-reference next to a self-reference.
type Crew struct {
	Name    string
	Members []*Member
}

type Member struct {
	Name    string
	Crew    *Crew `coredata:"backref"`
	Friends []*Member
}

// Simple returns a factory with three distinct workers.
func Simple() *Factory {
	return &Factory{
		Name: "Magrathea",
		Workers: []*Worker{
			{Name: "Arthur"},
			{Name: "Marvin"},
			{Name: "Zaphod"},
		},
	}
}

// DuplicateReferences returns a factory whose departments share Marvin.
func DuplicateReferences() *Factory {
	arthur := &Worker{Name: "Arthur"}
	marvin := &Worker{Name: "Marvin"}
	zaphod := &Worker{Name: "Zaphod"}

	sales := &Department{Name: "Sales", Workers: []*Worker{arthur, marvin}}
	engineering := &Department{Name: "Engineering", Workers: []*Worker{marvin, zaphod}}

	return &Factory{
		Name:        "Magrathea",
		Workers:     []*Worker{arthur, marvin, zaphod},
		Departments: []*Department{sales, engineering},
	}
}

// Recursive returns a factory with a worker who is their own friend and
// whose department points back at them.
func Recursive() *Factory {
	arthur := &Worker{Name: "Arthur"}
	arthur.Friends = []*Worker{arthur}

	sales := &Department{Name: "Sales", Workers: []*Worker{arthur}}
	arthur.CurrentDepartment = sales

	return &Factory{
		Name:    "Magrathea",
		Workers: []*Worker{arthur},
	}
}

// ShopWithProducts returns a shop owning the given products, with each
// product's back-reference left unset.
func ShopWithProducts(names ...string) *Shop {
	shop := &Shop{}
	for _, name := range names {
		shop.Products = append(shop.Products, &Product{Name: name})
	}
	return shop
}

// ShopWithVariants returns a shop with two products, the first with two
// variants, and every back-reference pointing at the real parent.
func ShopWithVariants() *Shop {
	shop := &Shop{}
	toaster := &Product{Name: "toaster", Shop: shop}
	toaster.Variants = []*Variant{
		{Color: "red", Product: toaster},
		{Color: "blue", Product: toaster},
	}
	kettle := &Product{Name: "kettle", Shop: shop}
	shop.Products = []*Product{toaster, kettle}
	return shop
}

// HeartOfGold returns a crew whose only member belongs to it and is their
// own friend.
func HeartOfGold() *Crew {
	crew := &Crew{Name: "Heart of Gold"}
	zaphod := &Member{Name: "Zaphod", Crew: crew}
	zaphod.Friends = []*Member{zaphod}
	crew.Members = []*Member{zaphod}
	return crew
}
