// Команда convert переводит экземпляр из формата JSPLIB в формат
// flow-shop: строки верхней и нижней границ, затем строка на станок.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"evosocial/internal/flowshop"
)

func main() {
	var (
		out   = pflag.StringP("out", "o", "", "выходной файл; по умолчанию stdout")
		upper = pflag.Int("upper", 0, "верхняя граница makespan")
		lower = pflag.Int("lower", 0, "нижняя граница makespan")
	)
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()
	defer klog.Flush()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Использование: %s [флаги] файл.jsplib\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(2)
	}

	in, err := os.Open(pflag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
	inst, err := flowshop.ReadJSPLIB(in, *upper, *lower)
	in.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка чтения JSPLIB:", err)
		os.Exit(1)
	}
	klog.V(2).InfoS("instance converted", "jobs", inst.Jobs, "machines", inst.Machines)

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := flowshop.WriteInstance(w, inst); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка записи:", err)
		os.Exit(1)
	}
}
